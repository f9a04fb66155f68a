package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrInvalidKey indicates a malformed cache key.
	ErrInvalidKey = errors.New("invalid cache key")

	// ErrCorrupted indicates a cache entry could not be decoded. Backends
	// treat corrupted entries as misses after removing them.
	ErrCorrupted = errors.New("corrupted cache entry")
)
