package hashtag

import "strings"

const strippedPunctuation = `.,:;!?"'()[]`

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '-', '_':
		return true
	}
	return false
}

// Keywords tokenizes free text into lowercase candidate keywords: a fixed
// punctuation set is removed, separators become token boundaries, tokens of
// length <= 1 are dropped, and duplicates keep their first-seen position.
// It never fails; garbage input yields an empty slice.
func Keywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, text)

	tokens := strings.FieldsFunc(strings.ToLower(cleaned), isSeparator)

	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) <= 1 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
