package utils

import (
	"strings"
)

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone strips whitespace inside a phone number.
func NormalizePhone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// AnonymizeName turns "Jane Mwale" into "Jane M.".
func AnonymizeName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0]) + "."
}
