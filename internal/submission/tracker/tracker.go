// internal/submission/tracker/tracker.go
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"package-directory/internal/submission"

	"github.com/redis/go-redis/v9"
)

var ErrNotTracked = errors.New("correlation key not tracked")

const keyPrefix = "posted-notification:"

// Store keeps the correlation between posted review messages and pending
// submissions in Redis, so resolution still works after a process restart.
// Entries expire after the TTL; a resolution arriving later takes the stale
// path.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Record stores a posted notification under its correlation key.
func (s *Store) Record(ctx context.Context, n *submission.PostedNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal posted notification: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+n.CorrelationKey, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store posted notification: %w", err)
	}
	return nil
}

// Lookup fetches the posted notification for a correlation key. Returns
// ErrNotTracked when the key is unknown, expired, or already resolved.
func (s *Store) Lookup(ctx context.Context, correlationKey string) (*submission.PostedNotification, error) {
	payload, err := s.client.Get(ctx, keyPrefix+correlationKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotTracked
	}
	if err != nil {
		return nil, fmt.Errorf("lookup posted notification: %w", err)
	}

	var n submission.PostedNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("unmarshal posted notification: %w", err)
	}
	return &n, nil
}

// Remove drops the correlation for a resolved submission.
func (s *Store) Remove(ctx context.Context, correlationKey string) error {
	if err := s.client.Del(ctx, keyPrefix+correlationKey).Err(); err != nil {
		return fmt.Errorf("remove posted notification: %w", err)
	}
	return nil
}
