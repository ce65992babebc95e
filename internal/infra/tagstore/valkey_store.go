package tagstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/arizet/hashtagd/internal/domain/hashtag"
)

// ValkeyStore shares finished results across instances via a Valkey-compatible
// database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "tags"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements hashtag.Store.
func (s *ValkeyStore) Get(ctx context.Context, key string) (hashtag.Result, bool, error) {
	if key == "" {
		return hashtag.Result{}, false, nil
	}
	cmd := s.client.B().Get().Key(s.entryKey(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return hashtag.Result{}, false, nil
		}
		return hashtag.Result{}, false, err
	}
	var result hashtag.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return hashtag.Result{}, false, err
	}
	return result, true, nil
}

// Save implements hashtag.Store.
func (s *ValkeyStore) Save(ctx context.Context, key string, result hashtag.Result, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) entryKey(key string) string {
	return s.prefix + ":result:" + key
}

var _ hashtag.Store = (*ValkeyStore)(nil)
