package hashtag

import (
	"strings"
	"unicode"
)

// Canonicalize normalizes candidates into canonical hashtags: outer whitespace
// trimmed, empties discarded, interior whitespace removed, the marker ensured,
// duplicates dropped case-insensitively with the first occurrence winning.
// Input already in canonical form passes through unchanged.
func Canonicalize(candidates []string) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		candidate = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, candidate)
		if !strings.HasPrefix(candidate, Marker) {
			candidate = Marker + candidate
		}
		if candidate == Marker {
			continue
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
	}
	return out
}
