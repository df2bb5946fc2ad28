package ratelimit

import (
	"context"
	"sync"
)

// Keyed maintains one Limiter per key, typically per target endpoint, so a
// slow backend cannot eat the budget of its siblings. Limiters are created
// lazily and share the same rate and burst.
type Keyed struct {
	rps   float64
	burst int

	mu   sync.Mutex
	lims map[string]*Limiter
}

// NewKeyed creates a Keyed set whose per-key limiters permit rps calls per
// second with the given burst size.
func NewKeyed(rps float64, burst int) *Keyed {
	return &Keyed{rps: rps, burst: burst, lims: make(map[string]*Limiter)}
}

// Get returns the limiter for key, creating it on first use.
func (k *Keyed) Get(key string) *Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()
	lim, ok := k.lims[key]
	if !ok {
		lim = NewLimiter(k.rps, k.burst)
		k.lims[key] = lim
	}
	return lim
}

// Allow reports whether a single call for key may proceed.
func (k *Keyed) Allow(key string) bool {
	return k.Get(key).Allow()
}

// Wait blocks until the limiter for key releases a token or ctx is done.
func (k *Keyed) Wait(ctx context.Context, key string) error {
	return k.Get(key).Wait(ctx)
}
