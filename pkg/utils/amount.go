package utils

import "strconv"

// FormatAmount renders an amount with thousands separators for
// human-readable audit details, e.g. 1234567 -> "1,234,567".
func FormatAmount(amount int) string {
	s := strconv.Itoa(amount)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	first := n % 3
	if first > 0 {
		out = append(out, s[:first]...)
	}
	for i := first; i < n; i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
