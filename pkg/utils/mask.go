package utils

const residentIDMask = "******"

// MaskResidentID keeps the first 8 characters (birth date + separator +
// first digit) and masks the rest. Anything shorter is masked entirely.
// Masking an already short or masked value yields the same shape, so the
// result is stable across repeated display.
func MaskResidentID(residentID string) string {
	if residentID == "" {
		return "-"
	}
	if len(residentID) <= 8 {
		return residentID + residentIDMask
	}
	return residentID[:8] + residentIDMask
}
