package tokenizer

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// the word-estimate path is what offline hosts run on, so it gets exercised
// directly without depending on a cached BPE file.
func newFallbackCounter() *Counter {
	return &Counter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestCountFallbackUsesWords(t *testing.T) {
	c := newFallbackCounter()
	require.Equal(t, 0, c.Count(""))
	require.Equal(t, 4, c.Count("uma frase com  quatro"))
}

func TestTruncateFallbackKeepsShortText(t *testing.T) {
	c := newFallbackCounter()
	require.Equal(t, "curto", c.Truncate("curto", 10))
}

func TestTruncateFallbackTrimsLongText(t *testing.T) {
	c := newFallbackCounter()
	require.Equal(t, "um dois", c.Truncate("um dois tres quatro", 2))
}

func TestTruncateZeroLimitIsNoop(t *testing.T) {
	c := newFallbackCounter()
	require.Equal(t, "texto", c.Truncate("texto", 0))
}
