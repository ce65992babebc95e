package historyrepo

import (
	"context"
	"sync"

	"github.com/arizet/hashtagd/internal/domain/hashtag"
)

// MemoryRepository is the process-lifetime history log. It is append-only,
// serialized by a mutex, and starts empty on every restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	entries  []hashtag.Result
	capacity int
}

// NewMemoryRepository constructs the log. A capacity of zero means unbounded;
// otherwise the oldest entries are evicted once the cap is exceeded.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity < 0 {
		capacity = 0
	}
	return &MemoryRepository{capacity: capacity}
}

// Append implements hashtag.History.
func (r *MemoryRepository) Append(_ context.Context, result hashtag.Result) error {
	// defensive copy so later caller mutations cannot reach the log
	result.Hashtags = append([]string(nil), result.Hashtags...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, result)
	if r.capacity > 0 && len(r.entries) > r.capacity {
		overflow := len(r.entries) - r.capacity
		r.entries = append(r.entries[:0:0], r.entries[overflow:]...)
	}
	return nil
}

// Recent implements hashtag.History, returning entries newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]hashtag.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]hashtag.Result, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		entry := r.entries[i]
		entry.Hashtags = append([]string(nil), entry.Hashtags...)
		out = append(out, entry)
	}
	return out, nil
}

// Len reports the current number of retained entries.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

var _ hashtag.History = (*MemoryRepository)(nil)
