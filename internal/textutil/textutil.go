package textutil

import "strings"

// NormalizeText lower-cases s, collapses whitespace runs to single spaces and
// trims the ends. Idempotent.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	return strings.TrimSpace(s)
}

// NormalizeList normalizes each entry, drops empties and de-duplicates
// preserving first-seen order. Nil in, empty out.
func NormalizeList(items []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(items))
	for _, it := range items {
		n := NormalizeText(it)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ClampInt clamps v into [min, max]. A reversed range resolves to min.
func ClampInt(v, min, max int) int {
	if min > max {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// KeywordOverlap counts how many distinct normalized keywords appear as a
// substring of the normalized text. A keyword matching twice counts once.
func KeywordOverlap(text string, keywords []string) int {
	t := NormalizeText(text)
	if t == "" {
		return 0
	}
	hits := 0
	for _, kw := range NormalizeList(keywords) {
		if strings.Contains(t, kw) {
			hits++
		}
	}
	return hits
}
