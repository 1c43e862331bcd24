package util

import (
	"regexp"
	"strings"
)

// DefaultDDI is the country calling code used when the form leaves it blank (Brazil).
const DefaultDDI = "+55"

var nonDigits = regexp.MustCompile(`[^\d]+`)

// NormalizePhone strips formatting from user input, keeping digits and a leading '+'.
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	plus := strings.HasPrefix(s, "+")
	s = nonDigits.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}

	if strings.HasPrefix(s, "00") {
		return "+" + s[2:]
	}
	if plus {
		return "+" + s
	}

	return s
}

// ComposePhone joins country code, area code (DDD) and local number the way the
// registration form does. An empty ddi falls back to DefaultDDI. Returns "" when
// either ddd or number is missing.
func ComposePhone(ddi, ddd, number string) string {
	ddd = nonDigits.ReplaceAllString(ddd, "")
	number = nonDigits.ReplaceAllString(number, "")
	if ddd == "" || number == "" {
		return ""
	}

	ddi = nonDigits.ReplaceAllString(ddi, "")
	if ddi == "" {
		ddi = strings.TrimPrefix(DefaultDDI, "+")
	}

	return "+" + ddi + ddd + number
}
