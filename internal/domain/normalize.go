package domain

import (
	"strings"
)

// DefaultCountryCode is prepended to phone numbers written without one.
const DefaultCountryCode = "+1"

// NormalizePhone prepares a phone number for the messaging gateway:
//   - trims surrounding whitespace
//   - drops every character except digits and a leading '+'
//   - prefixes DefaultCountryCode when no leading '+' is present
//
// A number without any digit normalizes to "".
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")

	var b strings.Builder
	b.Grow(len(raw) + len(DefaultCountryCode))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if plus {
		return "+" + digits
	}
	return DefaultCountryCode + digits
}
