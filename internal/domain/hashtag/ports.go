package hashtag

import (
	"context"
	"time"

	"github.com/arizet/hashtagd/internal/infra/llm/ollama"
)

// EngineClient abstracts the inference engine the service generates with.
type EngineClient interface {
	Generate(ctx context.Context, req ollama.GenerateRequest) (ollama.GenerateResult, error)
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
	Ping(ctx context.Context) error
}

// History is the append-only log of served results. Appends from concurrent
// requests must be serialized by the implementation; reads must never observe
// a partially written entry.
type History interface {
	Append(ctx context.Context, result Result) error
	Recent(ctx context.Context, limit int) ([]Result, error)
}

// Store is the shared cache for finished results.
type Store interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Save(ctx context.Context, key string, result Result, ttl time.Duration) error
}

// TokenCounter bounds prompt material against the engine's context window.
type TokenCounter interface {
	Count(text string) int
	Truncate(text string, limit int) string
}
