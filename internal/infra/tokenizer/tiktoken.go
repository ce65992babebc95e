package tokenizer

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// the cl100k vocabulary is an approximation for local models, which is fine
// here: the budget only guards against oversized prompts, it is not billing.
const encodingName = "cl100k_base"

// Counter measures and truncates text against a token budget.
type Counter struct {
	encoding *tiktoken.Tiktoken
	logger   *slog.Logger
}

// NewCounter constructs a Counter, degrading to a word-based estimate when the
// encoding cannot be loaded (e.g. offline hosts without the cached BPE file).
func NewCounter(logger *slog.Logger) *Counter {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, falling back to word estimate", "error", err)
		enc = nil
	}
	return &Counter{encoding: enc, logger: logger.With("component", "tokenizer")}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c.encoding != nil {
		return len(c.encoding.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}

// Truncate trims text so it fits within limit tokens. Text within budget is
// returned unchanged.
func (c *Counter) Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	if c.encoding != nil {
		tokens := c.encoding.Encode(text, nil, nil)
		if len(tokens) <= limit {
			return text
		}
		return c.encoding.Decode(tokens[:limit])
	}
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ")
}
