// utils/text.go
package utils

import "strings"

// NormalizeInput trims surrounding whitespace from user-supplied query text.
func NormalizeInput(s string) string {
	return strings.TrimSpace(s)
}

// Lowered caches the lower-cased form of a needle so a full table scan does not lower
// it once per row.
type Lowered string

// Lower returns a Lowered needle for repeated matching.
func Lower(substr string) Lowered {
	return Lowered(strings.ToLower(substr))
}

// In reports whether the needle occurs in s, ignoring case.
func (l Lowered) In(s string) bool {
	if l == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), string(l))
}
