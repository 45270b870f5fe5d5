// Package cache wraps the shared Redis instance behind the small expiring
// key-value surface the abuse-control layer needs: read, write-with-TTL,
// atomic increment, and atomic create-if-absent. Keys expire server-side, so
// no cleanup task exists anywhere in the process.
//
// The store is shared across instances when the service is horizontally
// scaled; every operation here maps to a single Redis command, so the
// window-counter arithmetic stays race-free without client-side locking.
package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"

	"github.com/stagemate/go-community-backend/internal/config"
)

// Store is a thin expiring key-value facade over a rueidis client.
// It is safe for concurrent use.
type Store struct {
	client rueidis.Client
}

// New connects to the Redis instance described by cfg.
func New(cfg config.RedisConfig) (*Store, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{cfg.Addr},
		Username:    cfg.Username,
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
		ClientName:  "go-community-backend",
	})
	if err != nil {
		return nil, err
	}
	return &Store{client: client}, nil
}

// NewWithClient wraps an existing client. Tests use it with miniredis.
func NewWithClient(client rueidis.Client) *Store {
	return &Store{client: client}
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.client.Close()
}

// Get returns the value at key and whether it exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// SetWithTTL writes value at key with a bounded lifetime.
func (s *Store) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Do(ctx, s.client.B().Set().Key(key).Value(value).Ex(ttl).Build()).Error()
}

// Incr atomically increments the integer at key and returns the new value.
// A missing key is treated as 0, per Redis INCR semantics. Note that INCR
// does not touch the key's TTL, so a counter created by GetOrCreate keeps
// its original window expiry across increments.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	return s.client.Do(ctx, s.client.B().Incr().Key(key).Build()).AsInt64()
}

// GetOrCreate atomically creates key with def and the given TTL when absent
// (SET NX EX), then returns the value now stored at key. The returned value
// is def exactly when this call created the key.
func (s *Store) GetOrCreate(ctx context.Context, key, def string, ttl time.Duration) (string, error) {
	err := s.client.Do(ctx, s.client.B().Set().Key(key).Value(def).Nx().Ex(ttl).Build()).Error()
	if err != nil && !rueidis.IsRedisNil(err) {
		return "", err
	}
	// SET NX answers nil when the key already existed; either way the key is
	// now present, so a plain GET yields the authoritative value.
	return s.client.Do(ctx, s.client.B().Get().Key(key).Build()).ToString()
}
