package hashtag

import (
	"strconv"
	"strings"
	"unicode"
)

// fallbackWord substitutes for candidates that sanitize down to nothing.
const fallbackWord = "hashtag"

// suffixWindow is how many rotation candidates are produced before the
// numeric suffix is bumped, which keeps the candidate space unbounded.
const suffixWindow = 5

// Synthesize deterministically generates exactly deficit new canonical
// hashtags from the sanitized source-text keywords, none of which collide
// with used or with each other. With fewer than two keywords a numeric-suffix
// series over a single base word is emitted; otherwise adjacent keyword pairs
// are rotated with a periodically incremented suffix. The suffix growth
// guarantees termination regardless of the used set.
func Synthesize(keywords []string, used []string, deficit int) []string {
	if deficit <= 0 {
		return nil
	}

	taken := make(map[string]struct{}, len(used)+deficit)
	for _, h := range used {
		taken[strings.ToLower(h)] = struct{}{}
	}

	switch len(keywords) {
	case 0:
		return suffixSeries(fallbackWord, taken, deficit)
	case 1:
		return suffixSeries(keywords[0], taken, deficit)
	}

	out := make([]string, 0, deficit)
	rotation := 0
	produced := 0
	suffix := 1
	for len(out) < deficit {
		first := keywords[rotation%len(keywords)]
		second := keywords[(rotation+1)%len(keywords)]
		rotation++

		base := sanitizeAlnum(first + second)
		if base == "" {
			base = fallbackWord
		}
		if suffix >= 2 {
			base += strconv.Itoa(suffix)
		}
		candidate := Marker + base

		produced++
		if produced%suffixWindow == 0 {
			suffix++
		}

		key := strings.ToLower(candidate)
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// suffixSeries emits word, word2, word3, ... skipping anything already taken.
// The counter advances every attempt, so the series cannot loop.
func suffixSeries(word string, taken map[string]struct{}, deficit int) []string {
	base := sanitizeAlnum(word)
	if base == "" {
		base = fallbackWord
	}

	out := make([]string, 0, deficit)
	for n := 1; len(out) < deficit; n++ {
		candidate := Marker + base
		if n >= 2 {
			candidate += strconv.Itoa(n)
		}
		key := strings.ToLower(candidate)
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

// sanitizeAlnum lowercases and keeps only letters and digits.
func sanitizeAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
