package validators

import "strings"

// NormalizePhone strips formatting characters (spaces, dashes, dots,
// parentheses, a leading +) and returns digits only.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone accepts Philippine mobile numbers: exactly 11 digits starting
// with "09", after formatting characters are stripped.
func IsValidPhone(phone string) bool {
	digits := NormalizePhone(phone)
	return len(digits) == 11 && strings.HasPrefix(digits, "09")
}
