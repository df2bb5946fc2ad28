package respcache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// Tiered combines the in-process [Memory] cache with a remote [Layer]
// (Redis or Memcached). Reads check memory first, then the remote layer,
// then the loader. Writes populate both.
type Tiered struct {
	mem    *Memory
	remote Layer

	mu    sync.Mutex
	loads map[string]*call
}

// NewTiered creates a two-level cache.
func NewTiered(mem *Memory, remote Layer) *Tiered {
	return &Tiered{
		mem:    mem,
		remote: remote,
		loads:  make(map[string]*call),
	}
}

// Get checks memory, then the remote layer. On a remote hit the value is
// promoted into memory (with zero TTL since the original TTL is unknown).
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, err := t.mem.Get(ctx, key); err != nil || ok {
		return v, ok, err
	}
	v, ok, err := t.remote.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = t.mem.Set(ctx, key, v, 0)
	return v, true, nil
}

// Set writes the value to the remote layer and then to memory.
func (t *Tiered) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	_ = t.remote.Set(ctx, key, val, ttl)
	return t.mem.Set(ctx, key, val, ttl)
}

// GetOrSet follows the memory → remote → loader pattern, deduplicating
// concurrent loads for the same key.
func (t *Tiered) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok, _ := t.mem.Get(ctx, key); ok {
		return v, nil
	}

	if v, ok, _ := t.remote.Get(ctx, key); ok {
		_ = t.mem.Set(ctx, key, v, ttl)
		return bytes.Clone(v), nil
	}

	t.mu.Lock()
	if c, ok := t.loads[key]; ok {
		t.mu.Unlock()
		c.wg.Wait()
		if c.err != nil {
			return nil, c.err
		}
		return bytes.Clone(c.val), nil
	}

	c := &call{}
	c.wg.Add(1)
	t.loads[key] = c
	t.mu.Unlock()

	c.val, c.err = loader(ctx)
	if c.err == nil {
		_ = t.remote.Set(ctx, key, c.val, ttl)
		_ = t.mem.Set(ctx, key, c.val, ttl)
	}
	c.wg.Done()

	t.mu.Lock()
	delete(t.loads, key)
	t.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	return bytes.Clone(c.val), nil
}
