package utils

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"010-1111-2222", "01011112222"},
		{"01011112222", "01011112222"},
		{"010 1111 2222", "01011112222"},
		{"(02) 345-6789", "023456789"},
		{"", ""},
		{"no digits", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskResidentID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"900101-1234567", "900101-1******"},
		{"900101-1", "900101-1******"},
		{"123", "123******"},
		{"", "-"},
	}
	for _, c := range cases {
		if got := MaskResidentID(c.in); got != c.want {
			t.Errorf("MaskResidentID(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskResidentIDNeverLeaksTail(t *testing.T) {
	masked := MaskResidentID("900101-1234567")
	for _, forbidden := range []string{"234567", "1234567"} {
		if strings.Contains(masked, forbidden) {
			t.Errorf("masked value %q leaks %q", masked, forbidden)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{50000, "50,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
		{-999, "-999"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
