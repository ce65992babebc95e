package hashtag

import (
	"time"

	"github.com/google/uuid"

	"github.com/arizet/hashtagd/pkg/metrics"
)

// Marker is the character every canonical hashtag starts with.
const Marker = "#"

// ResultSource identifies where a served result came from.
type ResultSource string

const (
	// SourceEngine means the inference engine was called for this result.
	SourceEngine ResultSource = "engine"
	// SourceCache means the result was served from the shared cache.
	SourceCache ResultSource = "cache"
)

// Request encapsulates one generation call.
type Request struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
	Model string `json:"model"`
}

// Result is the normalized outcome handed back to the transport and retained
// in the history log. Hashtags preserve insertion order and are unique under
// case-insensitive comparison.
type Result struct {
	ID         uuid.UUID           `json:"id"`
	Model      string              `json:"model"`
	Count      int                 `json:"count"`
	Hashtags   []string            `json:"hashtags"`
	Source     ResultSource        `json:"source"`
	CreatedAt  time.Time           `json:"createdAt"`
	DurationMs int64               `json:"durationMs,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}
