// Package strings provides string slice utilities.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim removes duplicates and blank strings from a slice, trimming
// whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}
	return result
}

// DistinctSorted returns the trimmed, non-blank distinct values in ascending
// order. The result is never nil so it encodes as an empty JSON array.
func DistinctSorted(values []string) []string {
	out := DedupeAndTrim(values)
	if out == nil {
		return []string{}
	}
	slices.Sort(out)
	return out
}
