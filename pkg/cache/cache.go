// Package cache provides pluggable byte caching for the poster pipeline.
//
// Three stages pay for recomputation: digit generation (quadratic in
// precision), plan composition, and artifact rendering. Each caches its
// output under a content-derived key, so identical requests replay from
// storage. Backends:
//
//   - [FileCache]: sharded JSON entries under a directory, for CLI runs
//   - [RedisCache]: shared cache for server deployments
//   - [MongoCache]: shared cache where a Mongo deployment already exists
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer], which hashes the inputs that determine the
// cached value; a [ScopedKeyer] prefixes keys for namespace isolation.
package cache

import (
	"context"
	"errors"
	"time"
)

// TTLs per cached stage. Digits never go stale; plans and artifacts expire so
// format tweaks in new releases repopulate naturally.
const (
	TTLDigits   = 0 // no expiry: pi does not change
	TTLPlan     = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ErrCacheMiss is returned by backends that cannot distinguish absence from
// failure; Get's boolean result is the primary miss signal.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
