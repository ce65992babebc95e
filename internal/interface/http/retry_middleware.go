package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"log/slog"

	"github.com/arizet/hashtagd/internal/infra/config"
)

// retryBodyLimit caps how much of a POST body is buffered for replay.
const retryBodyLimit = 1 << 20

var errBodyTooLarge = errors.New("request body too large to buffer for retry")

// withRetry re-runs POST requests whose response would be a 5xx, holding the
// response back until an attempt succeeds or attempts run out. Bodies are
// buffered up front so every attempt sees the full payload.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}

	excluded := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		excluded[path] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			handler.ServeHTTP(w, r)
			return
		}
		if _, skip := excluded[r.URL.Path]; skip {
			handler.ServeHTTP(w, r)
			return
		}

		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		backoff := cfg.BaseBackoff
		for attempt := 1; ; attempt++ {
			buffered := newBufferedResponse()

			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))

			handler.ServeHTTP(buffered, replay)
			if buffered.status < http.StatusInternalServerError || attempt == cfg.MaxAttempts {
				buffered.flushTo(w)
				return
			}

			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", buffered.status, "attempt", attempt)
			if backoff > 0 {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
	})
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// bufferedResponse absorbs a handler's output so a failed attempt can be
// discarded instead of reaching the client.
type bufferedResponse struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	statusFixed bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.statusFixed {
		return
	}
	b.status = status
	b.statusFixed = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for key := range dst {
		dst.Del(key)
	}
	for key, values := range b.header {
		dst[key] = append([]string(nil), values...)
	}
	w.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
