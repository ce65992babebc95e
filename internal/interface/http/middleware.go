package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arizet/hashtagd/internal/infra/config"
)

// errorHandlingMiddleware serializes the last recorded error after the handler
// chain unwinds, so handlers only ever attach errors and never write error
// bodies themselves.
func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		attrs := []any{"code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err}
		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
		} else {
			logger.Warn("request failed", attrs...)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newBucketLimiter(cfg)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if limiter.take(ip) {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

// bucketLimiter keeps one token bucket per client IP. Buckets idle longer than
// staleAfter are swept on the next take, which bounds memory without a
// background goroutine.
type bucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	ratePerSec float64
	burst      float64
	staleAfter time.Duration
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

func newBucketLimiter(cfg config.RateLimitConfig) *bucketLimiter {
	return &bucketLimiter{
		buckets:    make(map[string]*bucket),
		ratePerSec: float64(cfg.RequestsPerMinute) / 60,
		burst:      float64(cfg.Burst),
		staleAfter: 5 * time.Minute,
	}
}

func (l *bucketLimiter) take(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{tokens: l.burst, lastRefill: now}
		l.buckets[ip] = b
	} else {
		b.tokens += now.Sub(b.lastRefill).Seconds() * l.ratePerSec
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.lastRefill = now
	}

	l.sweep(now)

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *bucketLimiter) sweep(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.lastRefill) > l.staleAfter {
			delete(l.buckets, ip)
		}
	}
}
