package tagstore

import (
	"context"
	"sync"
	"time"

	"github.com/arizet/hashtagd/internal/domain/hashtag"
)

type cachedResult struct {
	payload   hashtag.Result
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the result cache used when no
// external cache is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]cachedResult
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cachedResult)}
}

// Get implements hashtag.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (hashtag.Result, bool, error) {
	if key == "" {
		return hashtag.Result{}, false, nil
	}
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return hashtag.Result{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return hashtag.Result{}, false, nil
	}
	return entry.payload, true, nil
}

// Save caches the result with optional TTL.
func (s *MemoryStore) Save(_ context.Context, key string, result hashtag.Result, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cachedResult{payload: result, expiresAt: exp}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ hashtag.Store = (*MemoryStore)(nil)
