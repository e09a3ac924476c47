package lifecycle

import "strings"

// MobileLength is the required digit count for customer mobile numbers.
const MobileLength = 10

// SanitizeMobile strips every non-digit rune and truncates the remainder to
// MobileLength digits, mirroring what the intake form does as the user types.
func SanitizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == MobileLength {
			break
		}
	}
	return b.String()
}

// ValidMobile reports whether s is exactly MobileLength digits.
func ValidMobile(s string) bool {
	if len(s) != MobileLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
