package util

import "strings"

// MobileQueryParam puts the registration form into its mobile entry mode.
const MobileQueryParam = "mobile"

// RegistrationLink is the URL encoded in the counter QR code.
func RegistrationLink(publicURL string) string {
	return strings.TrimRight(publicURL, "/") + "/?" + MobileQueryParam + "=true"
}

// IsMobileEntry reports whether the query value selects mobile mode. Only the exact
// value "true" does; there is no further validation.
func IsMobileEntry(v string) bool {
	return v == "true"
}
