package utils

import "strings"

// NormalizePhone strips everything but digits, so "010-1111-2222" and
// "01011112222" compare equal.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
