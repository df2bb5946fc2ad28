// Package ratelimit provides token-bucket rate limiting for outbound gRPC
// calls, backed by golang.org/x/time/rate: a single global gate plus a keyed
// set that maintains one limiter per target.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket limiter that decides whether an outbound
// call may proceed.
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter creates a Limiter that permits rps calls per second with the
// given burst size.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow reports whether a single call may proceed.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// Wait blocks until a token is available or ctx is done. It returns the
// context's error when ctx expires first.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
