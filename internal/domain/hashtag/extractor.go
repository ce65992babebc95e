package hashtag

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode"
)

// payloadKind tags the recognized shape of an engine payload.
type payloadKind int

const (
	// payloadDirect is a JSON object carrying a hashtags array.
	payloadDirect payloadKind = iota
	// payloadNested is a JSON object whose response string embeds such an object.
	payloadNested
	// payloadProse is free text, either a response string or the raw body itself.
	payloadProse
	// payloadEmpty carries no candidate text at all.
	payloadEmpty
)

type enginePayload struct {
	kind payloadKind
	tags []string
	text string
}

// Extract applies the layered extraction strategy to a raw engine payload and
// returns candidate hashtag strings. The second return value reports whether
// the payload contained any usable material at all: false means the engine
// response was empty, not merely short. Extraction itself never errors.
func Extract(raw []byte, requestedCount int) ([]string, bool) {
	payload := classify(raw)
	switch payload.kind {
	case payloadDirect, payloadNested:
		return payload.tags, true
	case payloadProse:
		if tags := scanMarkedTokens(payload.text); len(tags) > 0 {
			return tags, true
		}
		return topKeywordsByFrequency(payload.text, requestedCount), true
	default:
		return nil, false
	}
}

// classify probes the payload shape in strict precedence order: direct
// hashtags field, response string wrapping JSON, response string as prose,
// then the raw body as prose.
func classify(raw []byte) enginePayload {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return enginePayload{kind: payloadEmpty}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		if tagsRaw, ok := fields["hashtags"]; ok {
			if tags, ok := decodeTagArray(tagsRaw); ok {
				return enginePayload{kind: payloadDirect, tags: tags}
			}
		}
		if respRaw, ok := fields["response"]; ok {
			var inner string
			if err := json.Unmarshal(respRaw, &inner); err == nil {
				var nested map[string]json.RawMessage
				if err := json.Unmarshal([]byte(inner), &nested); err == nil {
					if tagsRaw, ok := nested["hashtags"]; ok {
						if tags, ok := decodeTagArray(tagsRaw); ok {
							return enginePayload{kind: payloadNested, tags: tags}
						}
					}
				}
				if strings.TrimSpace(inner) == "" {
					return enginePayload{kind: payloadEmpty}
				}
				return enginePayload{kind: payloadProse, text: inner}
			}
		}
	}

	return enginePayload{kind: payloadProse, text: string(trimmed)}
}

func decodeTagArray(raw json.RawMessage) ([]string, bool) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	tags := make([]string, 0, len(elements))
	for _, el := range elements {
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			tags = append(tags, s)
		}
	}
	return tags, true
}

// scanMarkedTokens collects marker-prefixed tokens from prose, splitting on
// whitespace, commas and semicolons.
func scanMarkedTokens(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	var out []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok, Marker) && len(tok) > len(Marker) {
			out = append(out, tok)
		}
	}
	return out
}

// topKeywordsByFrequency is the last-resort strategy: group words longer than
// two characters case-insensitively, order by descending frequency with
// first-seen position breaking ties, and prefix the top requestedCount keys.
func topKeywordsByFrequency(text string, requestedCount int) []string {
	type group struct {
		count int
		first int
	}
	groups := make(map[string]*group)
	order := make([]string, 0)

	for i, word := range strings.Fields(text) {
		word = strings.TrimFunc(word, unicode.IsPunct)
		if len([]rune(word)) <= 2 {
			continue
		}
		key := strings.ToLower(word)
		if g, ok := groups[key]; ok {
			g.count++
			continue
		}
		groups[key] = &group{count: 1, first: i}
		order = append(order, key)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := groups[order[i]], groups[order[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})

	if requestedCount > 0 && len(order) > requestedCount {
		order = order[:requestedCount]
	}
	out := make([]string, len(order))
	for i, key := range order {
		out[i] = Marker + key
	}
	return out
}
