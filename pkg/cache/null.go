package cache

import (
	"context"
	"time"
)

// NullCache is a no-op cache. Every Get is a miss and every Set is
// discarded. Used when caching is disabled.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always reports a miss.
func (c *NullCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(_ context.Context, _ string) error { return nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }
