package domain

import "strings"

// countryCallingCode is the national prefix applied to contact numbers.
const countryCallingCode = "91"

// NormalizePhone rewrites a contact number to its canonical +91 form:
// numbers already carrying the "+91" prefix are returned unchanged (which
// makes the function idempotent), a bare national-prefixed number gets a
// "+", a 10-digit number gets "+91", and anything else keeps its last 10
// digits under "+91".
func NormalizePhone(phone string) string {
	s := strings.TrimSpace(phone)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "+"+countryCallingCode) {
		return s
	}
	digits := keepDigits(s)
	if strings.HasPrefix(digits, countryCallingCode) && len(digits) >= 12 {
		return "+" + digits
	}
	if len(digits) == 10 {
		return "+" + countryCallingCode + digits
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return "+" + countryCallingCode + digits
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
