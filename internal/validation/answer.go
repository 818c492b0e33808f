// Package validation normalizes answer strings so the question service can
// detect when a distractor would collide with the correct answer despite
// superficial differences in casing, articles or punctuation.
package validation

import (
	"strings"
	"unicode"
)

// NormalizeAnswer normalizes an answer for comparison.
func NormalizeAnswer(answer string) string {
	answer = strings.ToLower(answer)

	// Leading articles carry no identity; labels come in Spanish and the
	// occasional English fallback.
	prefixes := []string{"el ", "la ", "los ", "las ", "the ", "a ", "an "}
	for _, prefix := range prefixes {
		answer = strings.TrimPrefix(answer, prefix)
	}

	var result strings.Builder
	for _, r := range answer {
		if !unicode.IsPunct(r) {
			result.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(result.String()), " ")
}

// SameAnswer reports whether two answer strings name the same thing after
// normalization.
func SameAnswer(a, b string) bool {
	return NormalizeAnswer(a) == NormalizeAnswer(b)
}
