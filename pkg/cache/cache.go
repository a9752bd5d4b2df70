// Package cache stores ordering results keyed by a hash of their inputs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for shared deployments of the HTTP API, and [NullCache] when caching is
// disabled. Keys come from a [Keyer] so callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// TTLResult is the default lifetime of a cached ordering result.
const TTLResult = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
// A miss is reported as (nil, false, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
