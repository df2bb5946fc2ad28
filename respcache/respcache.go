// Package respcache caches serialized RPC responses. It provides a
// pluggable caching contract with an in-process implementation backed by
// ristretto, remote layers backed by Redis and Memcached, and a tiered
// combination of the two. The cache interceptor stores responses here keyed
// by method and request payload.
package respcache

import (
	"context"
	"time"
)

// Cache is the public caching contract exposed to user logic.
type Cache interface {
	// Get retrieves a value by key. The boolean indicates a cache hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key with the given TTL. A zero TTL means the
	// entry has no automatic expiration.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// GetOrSet returns the cached value for key. On a cache miss it calls
	// loader exactly once, stores the result, and returns it.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error)
}

// Layer is the read/write contract a remote cache layer offers to [Tiered].
// Both [Redis] and [Memcached] satisfy it.
type Layer interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
