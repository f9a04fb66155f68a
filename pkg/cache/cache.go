// Package cache provides caching for trimmed ontology graphs and mask
// stacks, so repeated runs over the same base graph and threshold
// configuration skip the trim and mask stages entirely.
//
// Backends:
//   - FileCache: hash-sharded JSON files, for CLI usage
//   - RedisCache: shared cache for multi-instance API deployments
//   - NullCache: caching disabled
//
// Keys are derived from the SHA-256 hash of the serialized base graph plus
// the threshold configuration, so any change to the input invalidates the
// entry naturally.
package cache

import (
	"context"
	"time"
)

// TTLs for cached artifacts. Trims and masks are pure functions of their
// inputs, so the TTL only bounds disk/redis growth, not staleness.
const (
	TTLTrim = 7 * 24 * time.Hour
	TTLMask = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the pipeline's artifacts.
type Keyer interface {
	// TrimKey identifies a trimmed variant of a base graph.
	TrimKey(graphHash string, top, bottom int) string

	// MaskKey identifies a mask stack built from a trimmed variant.
	MaskKey(graphHash string, top, bottom int, orientation string) string
}

// DefaultKeyer hashes the key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TrimKey generates a key for a trimmed graph.
func (k *DefaultKeyer) TrimKey(graphHash string, top, bottom int) string {
	return hashKey("trim", graphHash, top, bottom)
}

// MaskKey generates a key for a mask stack.
func (k *DefaultKeyer) MaskKey(graphHash string, top, bottom int, orientation string) string {
	return hashKey("mask", graphHash, top, bottom, orientation)
}
