// Package phone normalizes contact phone numbers to E.164.
// Numbers without a country code are assumed to be Guinean; local mobiles
// are nine digits starting with 6 (e.g. 622 12 34 56 -> +224622123456).
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "GN"

// NormalizeE164 formats a phone number to E.164, treating bare numbers as
// Guinean. Anything that does not parse as a valid number comes back as the
// trimmed input so sales notes like "via WhatsApp" survive untouched.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	// 00-prefixed international dialing is common on Guinean business cards.
	candidate := trimmed
	if strings.HasPrefix(candidate, "00") {
		candidate = "+" + candidate[2:]
	}

	number, err := phonenumbers.Parse(candidate, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
