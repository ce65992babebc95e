package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/arizet/hashtagd/pkg/metrics"
)

const defaultBaseURL = "http://localhost:11434"

// GenerateRequest is the payload sent to the Ollama generate API.
type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	Format  string   `json:"format,omitempty"`
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

// Options carries sampling parameters understood by Ollama.
type Options struct {
	Temperature float32 `json:"temperature,omitempty"`
}

// generateResponse mirrors the non-streaming Ollama response envelope. Only the
// metadata is decoded here; the body itself is handed back verbatim because the
// shape of the model output inside it is not contractually fixed.
type generateResponse struct {
	Model           string `json:"model"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// GenerateResult is what the domain receives from a generation call.
type GenerateResult struct {
	Model   string
	RawBody []byte
	Usage   metrics.TokenUsage
}

// ModelInfo describes a model installed on the Ollama server.
type ModelInfo struct {
	Name          string `json:"name"`
	Size          int64  `json:"size"`
	Family        string `json:"family,omitempty"`
	ParameterSize string `json:"parameterSize,omitempty"`
}

type tagsResponse struct {
	Models []struct {
		Name    string `json:"name"`
		Size    int64  `json:"size"`
		Details struct {
			Family        string `json:"family"`
			ParameterSize string `json:"parameter_size"`
		} `json:"details"`
	} `json:"models"`
}

// Client performs HTTP requests against a local Ollama server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an Ollama client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate performs a synchronous generation call. The raw response body is
// returned untouched so the caller can apply its own extraction strategy.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	req.Stream = false

	payload, err := json.Marshal(req)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("encode generate request: %w", err)
	}

	endpoint := c.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return GenerateResult{}, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("request generation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode >= 300 {
		message := extractError(body)
		if message == "" {
			message = string(body)
		}
		return GenerateResult{}, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, message)
	}

	out := GenerateResult{Model: req.Model, RawBody: body}
	var meta generateResponse
	if err := json.Unmarshal(body, &meta); err == nil {
		if meta.Model != "" {
			out.Model = meta.Model
		}
		out.Usage = metrics.Usage(meta.PromptEvalCount, meta.EvalCount)
	}
	return out, nil
}

// ListModels queries the Ollama server for installed models.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := c.baseURL + "/api/tags"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request model list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}

	models := make([]ModelInfo, len(tags.Models))
	for i, m := range tags.Models {
		models[i] = ModelInfo{
			// ":latest" is the implicit default and only adds noise.
			Name:          strings.TrimSuffix(m.Name, ":latest"),
			Size:          m.Size,
			Family:        m.Details.Family,
			ParameterSize: m.Details.ParameterSize,
		}
	}
	return models, nil
}

// Ping checks whether the Ollama server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("cannot connect to ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// extractError pulls a readable message out of Ollama's error envelopes, which
// may be either {"error":"msg"} or {"error":{"message":"msg"}}.
func extractError(body []byte) string {
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	return ""
}
