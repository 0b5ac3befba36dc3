// Package phone normalizes user-entered phone numbers for storage.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed to be Indian, matching the
// audience of the booking console.
const defaultRegion = "IN"

// NormalizeE164 returns the E.164 form of input when it parses as a valid
// number, and the trimmed input unchanged otherwise. Normalization is
// best-effort: the directory accepts whatever the operator typed.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// Valid reports whether input parses as a dialable number.
func Valid(input string) bool {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), defaultRegion)
	return err == nil && phonenumbers.IsValidNumber(number)
}
