// Package schedule mirrors the date/time picker constraints on the server:
// weekdays only, business hours, and at most 28 days ahead.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Picker constraints.
const (
	// TimeLayout is the timestamp format the picker submits.
	TimeLayout = "2006-01-02 15:04"

	openingMinute = 9 * 60  // 09:00
	closingMinute = 17 * 60 // 17:00
	maxDaysAhead  = 28
)

// Common errors for preferred-time validation.
var (
	ErrWeekend      = errors.New("preferred time falls on a weekend")
	ErrOutsideHours = errors.New("preferred time is outside business hours")
	ErrOutsideRange = errors.New("preferred time is outside the allowed date range")
	ErrUnparsedTime = errors.New("preferred time is not a recognised timestamp")
)

// Parse parses picker-formatted timestamp text in the given location.
func Parse(value string, loc *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(TimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsedTime, value)
	}

	return parsed, nil
}

// Validate checks a preferred time against the booking window relative to now:
// a weekday between 09:00 and 17:00, no earlier than today and no more than 28
// days ahead.
func Validate(preferred, now time.Time) error {
	if preferred.Weekday() == time.Saturday || preferred.Weekday() == time.Sunday {
		return ErrWeekend
	}

	minute := preferred.Hour()*60 + preferred.Minute()
	if minute < openingMinute || minute > closingMinute {
		return ErrOutsideHours
	}

	day := time.Date(preferred.Year(), preferred.Month(), preferred.Day(), 0, 0, 0, 0, preferred.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) || day.After(today.AddDate(0, 0, maxDaysAhead)) {
		return ErrOutsideRange
	}

	return nil
}
