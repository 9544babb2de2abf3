// Package validate holds the pure syntax checks for user input. Absence of a
// match is the only failure signal: these functions never return an error.
package validate

import (
	"regexp"
	"strings"
)

var (
	// postcodeRe matches the UK postcode grammar after whitespace removal:
	// 1-2 letters, 1-2 digits, optional letter, digit, 2 letters.
	postcodeRe = regexp.MustCompile(`(?i)^[A-Z]{1,2}[0-9]{1,2}[A-Z]?[0-9][A-Z]{2}$`)

	// emailRe is the minimal local@domain.tld shape check.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Postcode reports whether raw is a syntactically valid UK postcode.
// All whitespace is stripped before matching, so "G2 1AL" and "g21al"
// are both accepted.
func Postcode(raw string) bool {
	stripped := strings.Join(strings.Fields(raw), "")
	if stripped == "" {
		return false
	}

	return postcodeRe.MatchString(stripped)
}

// Email reports whether raw is a syntactically valid email address.
func Email(raw string) bool {
	return emailRe.MatchString(raw)
}
