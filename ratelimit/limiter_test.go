package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/Keksclan/goStashSquirrel/ratelimit"
)

func TestLimiter_AllowUnderLimit(t *testing.T) {
	// burst=5 means the first 5 calls must succeed.
	l := ratelimit.NewLimiter(1, 5)
	for i := range 5 {
		if !l.Allow() {
			t.Fatalf("expected Allow() == true for call %d", i)
		}
	}
}

func TestLimiter_BlocksWhenBurstExhausted(t *testing.T) {
	// burst=2, very low rps so tokens don't refill during the test.
	l := ratelimit.NewLimiter(0.001, 2)

	// Exhaust the burst.
	l.Allow()
	l.Allow()

	if l.Allow() {
		t.Fatal("expected Allow() == false after burst exhausted")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := ratelimit.NewLimiter(0.001, 1)
	l.Allow() // drain the only token

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Fatal("expected Wait to fail once the context expired")
	}
}

func TestKeyed_IndependentBudgets(t *testing.T) {
	k := ratelimit.NewKeyed(0.001, 1)

	if !k.Allow("a:4242") {
		t.Fatal("first call for key a should pass")
	}
	if k.Allow("a:4242") {
		t.Fatal("second call for key a should be limited")
	}
	// A different key has its own untouched budget.
	if !k.Allow("b:4242") {
		t.Fatal("first call for key b should pass")
	}
}

func TestKeyed_GetReturnsSameLimiter(t *testing.T) {
	k := ratelimit.NewKeyed(1, 1)
	if k.Get("a") != k.Get("a") {
		t.Fatal("same key produced different limiters")
	}
	if k.Get("a") == k.Get("b") {
		t.Fatal("different keys share a limiter")
	}
}
