// Package kvstore holds short-lived shared state (rate-limit counters, CSRF
// tokens) behind a TTL key-value interface so that every API instance sees
// the same view. Redis is the production backend; the in-memory store is for
// single-instance development and for tests.
package kvstore

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Incr increments key and returns the new count together with the time
	// left before the key expires. ttl is applied only when the key is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New returns a Redis-backed store when client is non-nil, otherwise an
// in-memory store.
func New(client *goredis.Client) Store {
	if client == nil {
		return NewMemoryStore()
	}
	return NewRedisStore(client)
}
