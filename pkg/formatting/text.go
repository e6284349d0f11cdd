package formatting

import "strings"

// SanitizeText trims s and collapses every run of whitespace, including
// line breaks, into a single space.
func SanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
