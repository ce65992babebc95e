package hashtag

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arizet/hashtagd/internal/infra/llm/ollama"
	apperrors "github.com/arizet/hashtagd/pkg/errors"
)

// Service exposes hashtag generation and the result history.
type Service interface {
	Generate(ctx context.Context, req Request) (Result, error)
	Recent(ctx context.Context, limit int) ([]Result, error)
	Models(ctx context.Context) ([]ollama.ModelInfo, error)
	EngineHealthy(ctx context.Context) bool
}

type service struct {
	cfg     Config
	engine  EngineClient
	history History
	store   Store
	tokens  TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the hashtag domain.
func NewService(cfg Config, engine EngineClient, history History, store Store, tokens TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		engine:  engine,
		history: history,
		store:   store,
		tokens:  tokens,
		logger:  logger.With("component", "hashtag.service"),
	}
}

func (s *service) Generate(ctx context.Context, req Request) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{}, apperrors.Wrap(CodeInvalidInput, "text cannot be empty", nil)
	}

	count := req.Count
	if count == 0 {
		count = s.cfg.DefaultCount
	}
	if count < 1 || count > s.cfg.MaxCount {
		return Result{}, apperrors.Wrap(CodeInvalidInput, fmt.Sprintf("count must be between 1 and %d", s.cfg.MaxCount), nil)
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.cfg.Model
	}

	start := time.Now()
	key := cacheKey(text, count, model)

	if cached, ok, err := s.store.Get(ctx, key); err != nil {
		s.logger.Warn("result cache lookup failed", "error", err)
	} else if ok {
		result := cached
		result.ID = uuid.New()
		result.Source = SourceCache
		result.CreatedAt = time.Now().UTC()
		result.DurationMs = time.Since(start).Milliseconds()
		s.record(ctx, result)
		return result, nil
	}

	gen, err := s.engine.Generate(ctx, ollama.GenerateRequest{
		Model:   model,
		Prompt:  s.buildPrompt(text, count),
		Format:  "json",
		Options: &ollama.Options{Temperature: s.cfg.Temperature},
	})
	if err != nil {
		return Result{}, apperrors.Wrap(CodeEngineError, "hashtag generation request failed", err)
	}
	s.logger.Debug("engine response received", "model", gen.Model, "bytes", len(gen.RawBody))

	tags, err := compose(gen.RawBody, text, count)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		ID:         uuid.New(),
		Model:      model,
		Count:      len(tags),
		Hashtags:   tags,
		Source:     SourceEngine,
		CreatedAt:  time.Now().UTC(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if !gen.Usage.IsZero() {
		usage := gen.Usage
		result.TokenUsage = &usage
	}

	s.record(ctx, result)
	if err := s.store.Save(ctx, key, result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("result cache save failed", "error", err)
	}
	return result, nil
}

// compose runs the normalization pipeline over the raw engine payload:
// extract, canonicalize, fill any shortfall via synthesis, and enforce the
// exact requested count.
func compose(raw []byte, sourceText string, requestedCount int) ([]string, error) {
	candidates, ok := Extract(raw, requestedCount)
	if !ok {
		return nil, apperrors.Wrap(CodeUnparseablePayload, "engine payload contained no usable text", nil)
	}

	tags := Canonicalize(candidates)
	if len(tags) >= requestedCount {
		return tags[:requestedCount], nil
	}

	keywords := Keywords(sourceText)
	if len(tags) == 0 && len(keywords) == 0 {
		return nil, apperrors.Wrap(CodeNoHashtags, "no hashtags could be produced from the request", nil)
	}

	tags = append(tags, Synthesize(keywords, tags, requestedCount-len(tags))...)
	tags = Canonicalize(tags)
	if len(tags) > requestedCount {
		tags = tags[:requestedCount]
	}
	return tags, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	return s.history.Recent(ctx, limit)
}

func (s *service) Models(ctx context.Context) ([]ollama.ModelInfo, error) {
	models, err := s.engine.ListModels(ctx)
	if err != nil {
		return nil, apperrors.Wrap(CodeEngineError, "model listing failed", err)
	}
	return models, nil
}

func (s *service) EngineHealthy(ctx context.Context) bool {
	return s.engine.Ping(ctx) == nil
}

func (s *service) buildPrompt(text string, count int) string {
	instruction := fmt.Sprintf(s.cfg.Prompt, count)
	if budget := s.cfg.PromptTokenLimit - s.tokens.Count(instruction); budget > 0 {
		text = s.tokens.Truncate(text, budget)
	}
	return instruction + "\n\nText:\n" + text
}

func (s *service) record(ctx context.Context, result Result) {
	if err := s.history.Append(ctx, result); err != nil {
		s.logger.Warn("history append failed", "error", err)
	}
}

func cacheKey(text string, count int, model string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return normalized + "|" + strconv.Itoa(count) + "|" + model
}
