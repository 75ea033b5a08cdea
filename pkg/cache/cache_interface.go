package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that need to distinguish a miss from a failure.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the contract for the cache layer.
// The API uses Redis; tests use the in-memory implementation.
type Cache interface {
	// Get loads the value stored at key into dest.
	// found = false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value (JSON encoded) with a TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	// DeletePattern removes every key matching a glob pattern (e.g. "catalog:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Counter helpers, used for locks and rate style guards.
	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
