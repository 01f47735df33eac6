package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns a caseless form of value suitable for comparisons across scripts.
// A fresh caser is used per call because cases.Caser is not safe for concurrent use.
func Fold(value string) string {
	return cases.Fold().String(value)
}

// EqualFold compares two strings after trimming surrounding whitespace and case folding.
func EqualFold(a, b string) bool {
	return Fold(strings.TrimSpace(a)) == Fold(strings.TrimSpace(b))
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
