// Package booking tracks the selected doctor and handles booking submission.
// No appointment is persisted anywhere: a successful booking only sends a
// confirmation email.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/asclepius/internal/mailer"
	"github.com/UnknownOlympus/asclepius/internal/metrics"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/validate"
)

// Alert texts surfaced to the user, carried over from the page.
const (
	AlertNoSelection  = "You must select a marker before proceeding."
	AlertMissingName  = "Please enter your name before trying again."
	AlertMissingEmail = "Please enter a valid email address and try again."
	AlertInvalidEmail = "Email address is invalid, please enter valid email address and try again."
	AlertMissingTime  = "Please enter a preferred appointment time"
	AlertBooked       = "Appointment Booked and Confirmation Email Sent."
)

// emailSubject is the fixed confirmation subject line.
const emailSubject = "Appointment Booked"

// ErrNoSelection is returned when submission happens before any marker click.
var ErrNoSelection = errors.New("no doctor selected")

// Result is the outcome of one submission: the alerts that fired and whether
// the confirmation email went out.
type Result struct {
	Alerts []string `json:"alerts"`
	Booked bool     `json:"booked"`
}

// Flow validates booking forms and dispatches confirmation emails.
type Flow struct {
	mail    mailer.Sender    // mail is the email delivery capability
	metrics *metrics.Metrics // metrics tracks booking outcomes
	log     *slog.Logger     // log is the logger for logging operations
}

// New creates a booking flow using the given mail sender.
func New(mail mailer.Sender, appMetrics *metrics.Metrics, log *slog.Logger) *Flow {
	return &Flow{mail: mail, metrics: appMetrics, log: log}
}

// Submit validates the form against the current selection and sends the
// confirmation email when the form is complete.
//
// The gating deliberately reproduces the page it replaces: a missing name or
// missing preferred time raises an alert without aborting, while a missing or
// invalid email aborts. The email goes out iff name, email and time are all
// non-empty and the email is syntactically valid. Resolving that asymmetry
// needs a product decision, not a code one.
func (f *Flow) Submit(ctx context.Context, selected *models.DoctorCandidate, form models.BookingForm) (*Result, error) {
	result := &Result{}

	if selected == nil {
		result.Alerts = append(result.Alerts, AlertNoSelection)
		f.metrics.BookingsTotal.WithLabelValues("no_selection").Inc()
		return result, ErrNoSelection
	}

	if form.Name == "" {
		result.Alerts = append(result.Alerts, AlertMissingName)
	}

	if form.Email == "" {
		result.Alerts = append(result.Alerts, AlertMissingEmail)
	} else if !validate.Email(form.Email) {
		result.Alerts = append(result.Alerts, AlertInvalidEmail)
		f.metrics.BookingsTotal.WithLabelValues("invalid_form").Inc()
		return result, nil
	}

	if form.PreferredTime == "" {
		result.Alerts = append(result.Alerts, AlertMissingTime)
	}

	if form.Name == "" || form.Email == "" || form.PreferredTime == "" {
		f.metrics.BookingsTotal.WithLabelValues("invalid_form").Inc()
		return result, nil
	}

	msg := mailer.Message{
		To:      form.Email,
		ToName:  form.Name,
		Subject: emailSubject,
		Body:    composeBody(form, selected),
	}

	// No retry on delivery failure, the user resubmits manually.
	if err := f.mail.Send(ctx, msg); err != nil {
		f.metrics.EmailsTotal.WithLabelValues("failure").Inc()
		f.metrics.BookingsTotal.WithLabelValues("email_failed").Inc()
		f.log.ErrorContext(ctx, "Failed to send confirmation email", "error", err)
		return result, fmt.Errorf("failed to send confirmation email: %w", err)
	}

	f.metrics.EmailsTotal.WithLabelValues("success").Inc()
	f.metrics.BookingsTotal.WithLabelValues("success").Inc()
	f.log.InfoContext(ctx, "Confirmation email sent", "doctor", selected.Name)

	result.Booked = true
	result.Alerts = append(result.Alerts, AlertBooked)

	return result, nil
}

// composeBody builds the confirmation message body.
func composeBody(form models.BookingForm, selected *models.DoctorCandidate) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s at %s has been booked for %s\n\nThanks",
		form.Name, selected.Name, selected.Vicinity, form.PreferredTime,
	)
}
