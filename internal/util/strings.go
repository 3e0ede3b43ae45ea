// Package util provides small helpers shared across devbox. It is kept
// dependency-free (no imports from other internal/* packages) so it can
// be used anywhere without introducing cycles.
package util

import "strings"

// DefaultString returns fallback if v is empty or whitespace-only,
// otherwise v unchanged.
func DefaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// EmptyDash returns "-" for blank strings so table output stays aligned
// and readable.
func EmptyDash(s string) string {
	return DefaultString(s, "-")
}
