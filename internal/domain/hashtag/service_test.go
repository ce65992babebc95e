package hashtag

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arizet/hashtagd/internal/infra/llm/ollama"
	apperrors "github.com/arizet/hashtagd/pkg/errors"
	"github.com/arizet/hashtagd/pkg/metrics"
)

func TestGeneratePadsShortExtractionToExactCount(t *testing.T) {
	engine := &stubEngine{raw: []byte(`{"hashtags": ["#viagem", "#viagem", "#praia"]}`)}
	history := &stubHistory{}
	svc := newTestService(testConfig(), engine, history, newStubStore())

	result, err := svc.Generate(context.Background(), Request{
		Text:  "viagem incrível pela praia",
		Count: 4,
	})
	require.NoError(t, err)
	require.Equal(t, 4, result.Count)
	require.Len(t, result.Hashtags, 4)
	require.Equal(t, "#viagem", result.Hashtags[0])
	require.Equal(t, "#praia", result.Hashtags[1])
	requireAllUnique(t, result.Hashtags)
	for _, tag := range result.Hashtags {
		require.True(t, strings.HasPrefix(tag, Marker))
		require.NotContains(t, tag, " ")
	}
}

func TestGenerateTruncatesOverlongExtraction(t *testing.T) {
	engine := &stubEngine{raw: []byte(`{"hashtags": ["#a1", "#b2", "#c3", "#d4", "#e5"]}`)}
	svc := newTestService(testConfig(), engine, &stubHistory{}, newStubStore())

	result, err := svc.Generate(context.Background(), Request{Text: "qualquer texto", Count: 3})
	require.NoError(t, err)
	require.Equal(t, []string{"#a1", "#b2", "#c3"}, result.Hashtags)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	engine := &stubEngine{raw: []byte(`{"hashtags": ["#um", "#dois", "#tres", "#quatro", "#cinco"]}`)}
	svc := newTestService(testConfig(), engine, &stubHistory{}, newStubStore())

	result, err := svc.Generate(context.Background(), Request{Text: "texto de exemplo"})
	require.NoError(t, err)
	require.Equal(t, 5, result.Count)
	require.Equal(t, "test-model", engine.lastRequest.Model)
	require.Equal(t, "json", engine.lastRequest.Format)
	require.Contains(t, engine.lastRequest.Prompt, "texto de exemplo")
}

func TestGenerateRejectsEmptyText(t *testing.T) {
	svc := newTestService(testConfig(), &stubEngine{}, &stubHistory{}, newStubStore())

	_, err := svc.Generate(context.Background(), Request{Text: "   ", Count: 3})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeInvalidInput))
}

func TestGenerateRejectsOutOfRangeCount(t *testing.T) {
	svc := newTestService(testConfig(), &stubEngine{}, &stubHistory{}, newStubStore())

	for _, count := range []int{-1, 31} {
		_, err := svc.Generate(context.Background(), Request{Text: "texto", Count: count})
		require.Error(t, err)
		require.True(t, apperrors.IsCode(err, CodeInvalidInput))
	}
}

func TestGenerateWrapsEngineFailure(t *testing.T) {
	engine := &stubEngine{err: context.DeadlineExceeded}
	svc := newTestService(testConfig(), engine, &stubHistory{}, newStubStore())

	_, err := svc.Generate(context.Background(), Request{Text: "texto", Count: 3})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeEngineError))
}

func TestGenerateServesFromCacheWithoutEngineCall(t *testing.T) {
	engine := &stubEngine{}
	history := &stubHistory{}
	store := newStubStore()
	cached := Result{Model: "test-model", Count: 2, Hashtags: []string{"#um", "#dois"}, Source: SourceEngine}
	require.NoError(t, store.Save(context.Background(), cacheKey("texto cacheado", 2, "test-model"), cached, time.Hour))

	svc := newTestService(testConfig(), engine, history, store)
	result, err := svc.Generate(context.Background(), Request{Text: " Texto  CACHEADO ", Count: 2})
	require.NoError(t, err)
	require.Zero(t, engine.calls)
	require.Equal(t, SourceCache, result.Source)
	require.Equal(t, []string{"#um", "#dois"}, result.Hashtags)
	require.Len(t, history.entries, 1)
}

func TestGenerateRecordsHistoryAndUsage(t *testing.T) {
	engine := &stubEngine{
		raw:   []byte(`{"hashtags": ["#um", "#dois"]}`),
		usage: metrics.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
	history := &stubHistory{}
	svc := newTestService(testConfig(), engine, history, newStubStore())

	result, err := svc.Generate(context.Background(), Request{Text: "texto", Count: 2})
	require.NoError(t, err)
	require.Equal(t, SourceEngine, result.Source)
	require.NotNil(t, result.TokenUsage)
	require.Equal(t, 15, result.TokenUsage.TotalTokens)
	require.Len(t, history.entries, 1)
	require.Equal(t, result.Hashtags, history.entries[0].Hashtags)
}

func TestComposeEmptySourceAndPayloadYieldsNoHashtags(t *testing.T) {
	_, err := compose([]byte(`{"hashtags": []}`), "", 5)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeNoHashtags))
}

func TestComposeEmptyPayloadIsUnparseable(t *testing.T) {
	_, err := compose(nil, "texto válido", 3)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeUnparseablePayload))
}

func TestComposeSynthesizesEverythingWhenPayloadHasNoTags(t *testing.T) {
	tags, err := compose([]byte(`{"hashtags": []}`), "férias na praia", 4)
	require.NoError(t, err)
	require.Len(t, tags, 4)
	requireAllUnique(t, tags)
}

func TestModelsWrapsEngineFailure(t *testing.T) {
	engine := &stubEngine{listErr: context.DeadlineExceeded}
	svc := newTestService(testConfig(), engine, &stubHistory{}, newStubStore())

	_, err := svc.Models(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeEngineError))
}

func testConfig() Config {
	return Config{
		Model:            "test-model",
		Temperature:      0.2,
		Prompt:           "Generate exactly %d hashtags as JSON.",
		DefaultCount:     5,
		MaxCount:         30,
		CacheTTL:         time.Hour,
		HistoryLimit:     50,
		PromptTokenLimit: 512,
	}
}

func newTestService(cfg Config, engine EngineClient, history History, store Store) Service {
	return NewService(cfg, engine, history, store, staticCounter{}, newTestLogger())
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubEngine struct {
	raw         []byte
	usage       metrics.TokenUsage
	err         error
	listErr     error
	pingErr     error
	models      []ollama.ModelInfo
	calls       int
	lastRequest ollama.GenerateRequest
}

func (s *stubEngine) Generate(_ context.Context, req ollama.GenerateRequest) (ollama.GenerateResult, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return ollama.GenerateResult{}, s.err
	}
	return ollama.GenerateResult{Model: req.Model, RawBody: s.raw, Usage: s.usage}, nil
}

func (s *stubEngine) ListModels(_ context.Context) ([]ollama.ModelInfo, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.models, nil
}

func (s *stubEngine) Ping(_ context.Context) error {
	return s.pingErr
}

type stubHistory struct {
	entries []Result
}

func (h *stubHistory) Append(_ context.Context, result Result) error {
	h.entries = append(h.entries, result)
	return nil
}

func (h *stubHistory) Recent(_ context.Context, limit int) ([]Result, error) {
	n := len(h.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Result, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

type stubStore struct {
	entries map[string]Result
}

func newStubStore() *stubStore {
	return &stubStore{entries: make(map[string]Result)}
}

func (s *stubStore) Get(_ context.Context, key string) (Result, bool, error) {
	result, ok := s.entries[key]
	return result, ok, nil
}

func (s *stubStore) Save(_ context.Context, key string, result Result, _ time.Duration) error {
	s.entries[key] = result
	return nil
}

type staticCounter struct{}

func (staticCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func (staticCounter) Truncate(text string, _ int) string {
	return text
}
