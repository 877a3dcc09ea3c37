// Package cache stores rendered chart artifacts keyed by their inputs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// server, and [NullCache] when caching is disabled. A [Keyer] derives keys
// from a dataset hash plus everything that affects the output, so a changed
// option never serves a stale artifact.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
// Get reports a miss with hit == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
