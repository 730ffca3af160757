package validation

import (
	"strings"

	"github.com/skillsenselab/callbridge/internal/errors"
)

// E.164 allows at most 15 digits; NANP numbers carry 10.
const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// NormalizePhone converts a free-form phone number into E.164 form.
// Formatting characters are stripped, a bare 10-digit national number
// gets the country code 1, and the result is prefixed with "+".
//
//	"(555) 123-4567" -> "+15551234567"
//	"5551234567"     -> "+15551234567"
//	"+44 20 7946 0958" -> "+442079460958"
func NormalizePhone(raw string) (string, error) {
	digits := stripNonDigits(raw)
	if len(digits) < minPhoneDigits {
		return "", errors.InvalidInput("to", "must be a phone number with at least 10 digits")
	}
	if len(digits) > maxPhoneDigits {
		return "", errors.InvalidInput("to", "must be a phone number with at most 15 digits")
	}
	if len(digits) == minPhoneDigits {
		digits = "1" + digits
	}
	return "+" + digits, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
