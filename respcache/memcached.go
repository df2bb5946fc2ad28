package respcache

import (
	"context"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// Memcached is a Memcached-backed cache layer with the same fail-soft
// behaviour as [Redis]: an unreachable server reads as a miss and writes are
// silently discarded.
type Memcached struct {
	mc *memcache.Client
}

// NewMemcached creates a Memcached layer over the given server addresses.
func NewMemcached(addrs ...string) *Memcached {
	return &Memcached{mc: memcache.New(addrs...)}
}

// Get retrieves a value by key. Returns (nil, false, nil) on a miss or when
// the server is unreachable.
func (m *Memcached) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := m.mc.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, false, nil
		}
		// Fail soft: treat connection errors as a miss.
		return nil, false, nil
	}
	return item.Value, true, nil
}

// Set stores a value under key with the given TTL. Memcached expirations
// have one-second resolution; a zero TTL means no automatic expiration.
// Errors are silently discarded (fail soft).
func (m *Memcached) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	_ = m.mc.Set(&memcache.Item{
		Key:        key,
		Value:      val,
		Expiration: int32(ttl / time.Second),
	})
	return nil
}

// Ping checks that at least one configured server answers.
func (m *Memcached) Ping() error {
	return m.mc.Ping()
}
