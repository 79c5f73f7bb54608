// Package phone normalizes phone-number-like identifiers so that the same
// contact written as "+1 123-456-7890" and "(123) 456-7890" compares equal.
package phone

import (
	"regexp"
	"strings"
)

// Characters that may appear in a formatted phone number
var numberPattern = regexp.MustCompile(`^[0-9() \-+]*$`)

// Normalize reduces a phone number to its trailing 10 digits, dropping the
// country code and all formatting. Identifiers that are not phone numbers
// (email addresses, contact names) are returned unchanged.
//
// This makes several assumptions about number length and should be used
// with caution outside address comparison.
func Normalize(addr string) string {
	if !numberPattern.MatchString(addr) {
		return addr
	}

	var digits strings.Builder
	for _, r := range addr {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := digits.String()
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	return s
}

// NormalizeAll maps Normalize over a list of addresses.
func NormalizeAll(addrs []string) []string {
	if addrs == nil {
		return nil
	}
	normalized := make([]string, len(addrs))
	for i, addr := range addrs {
		normalized[i] = Normalize(addr)
	}
	return normalized
}
