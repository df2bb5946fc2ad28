package breaker

import "sync"

// Set maintains one Breaker per key, typically per target endpoint, so a
// failing backend trips only its own circuit. Breakers are created lazily
// from a shared Config.
type Set struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewSet creates a Set whose per-key breakers use the given configuration.
func NewSet(cfg Config) *Set {
	return &Set{cfg: cfg, breakers: make(map[string]*Breaker)}
}

// Get returns the breaker for key, creating it on first use.
func (s *Set) Get(key string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.breakers[key]
	if !ok {
		b = New(s.cfg)
		s.breakers[key] = b
	}
	return b
}
