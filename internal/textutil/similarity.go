package textutil

import (
	"strings"
	"unicode"
)

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for token, count := range a.tokens {
		if other, ok := b.tokens[token]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// TitleSimilarity scores how closely two titles match, in 0..1. Titles that
// normalize to the same string score exactly 1, which keeps symbol spellings
// like "&" vs "and" equivalent and avoids floating-point drift on identical
// input. Otherwise it compares term-frequency fingerprints, falling back to 0
// when either title is too short to fingerprint.
func TitleSimilarity(a, b string) float64 {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	fa, fb := NewFingerprint(a), NewFingerprint(b)
	if fa != nil && fb != nil {
		return CosineSimilarity(fa, fb)
	}
	return 0
}

// NormalizeTitle lowers the title and strips everything but letters and
// digits, mapping "&" and "+" to "and" first. Two titles that normalize to the
// same string are treated as the same title for caching and comparison.
func NormalizeTitle(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	normalized := strings.ToLower(input)
	normalized = strings.ReplaceAll(normalized, "&", "and")
	normalized = strings.ReplaceAll(normalized, "+", "and")

	var builder strings.Builder
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
