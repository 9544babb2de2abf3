package validate_test

import (
	"testing"

	"github.com/UnknownOlympus/asclepius/internal/validate"
	"github.com/stretchr/testify/assert"
)

func TestPostcode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"standard form with space", "G2 1AL", true},
		{"lowercase without space", "g21al", true},
		{"edinburgh city centre", "EH1 1AA", true},
		{"two letter area", "SW1A 1AA", true},
		{"excess inner whitespace", "G2  1AL", true},
		{"leading and trailing whitespace", "  G2 1AL  ", true},
		{"plain word", "invalid", false},
		{"empty string", "", false},
		{"whitespace only", "   ", false},
		{"digits only", "12345", false},
		{"missing inward code", "G2", false},
		{"too many trailing letters", "G2 1ALX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.Postcode(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"minimal valid address", "a@b.co", true},
		{"typical address", "jane.doe@example.com", true},
		{"no dot after domain", "a@b", false},
		{"space in local part", "a b@c.com", false},
		{"missing local part", "@b.co", false},
		{"missing domain", "a@", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validate.Email(tt.input))
		})
	}
}

// Validity is a pure function of the input, so re-checking an already valid
// value never changes the outcome.
func TestValidationIsIdempotent(t *testing.T) {
	postcode := "G2 1AL"
	email := "a@b.co"

	for i := 0; i < 3; i++ {
		assert.True(t, validate.Postcode(postcode))
		assert.True(t, validate.Email(email))
	}
}
