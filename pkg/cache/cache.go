// Package cache stores placement results and rendered artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// the HTTP server where several processes share results, and [NullCache] when
// caching is disabled. Keys come from a [Keyer] so that callers never build
// key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// PlacementTTL is how long a placed document stays cached.
	PlacementTTL = 7 * 24 * time.Hour

	// ArtifactTTL is how long a rendered artifact stays cached.
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error; errors are reserved for
// backend failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
