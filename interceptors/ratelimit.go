package interceptors

import (
	"context"
	"sync"

	"github.com/Keksclan/goStashSquirrel/policy"
	"github.com/Keksclan/goStashSquirrel/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errRateLimited is allocated once to avoid per-call allocations on the hot path.
var errRateLimited = status.Error(codes.ResourceExhausted, "rate limit exceeded")

// LimitMode selects how an interceptor reacts to an exhausted limiter.
type LimitMode int

const (
	// Reject fails the call immediately with codes.ResourceExhausted.
	Reject LimitMode = iota

	// Wait blocks until the limiter grants a token or the context ends.
	Wait
)

// gate applies the limiter in the given mode. It returns nil when the call
// may proceed.
func gate(ctx context.Context, l *ratelimit.Limiter, mode LimitMode) error {
	if mode == Wait {
		if err := l.Wait(ctx); err != nil {
			return status.Error(codes.ResourceExhausted, err.Error())
		}
		return nil
	}
	if !l.Allow() {
		return errRateLimited
	}
	return nil
}

// rateLimitState holds the global limiter, an optional policy resolver, and a
// cache of per-group limiters created lazily from resolved policies.
type rateLimitState struct {
	global   *ratelimit.Limiter
	resolver *policy.Resolver

	mu     sync.Mutex
	groups map[string]*ratelimit.Limiter
}

// limiterFor returns the per-group limiter when the resolver matches
// fullMethod to a group with a RateLimit policy. Otherwise it returns the
// global limiter.
func (s *rateLimitState) limiterFor(fullMethod string) *ratelimit.Limiter {
	if s.resolver != nil {
		if name, pol, ok := s.resolver.Resolve(fullMethod); ok && pol != nil && pol.RateLimit != nil {
			return s.groupLimiter(name, pol.RateLimit)
		}
	}
	return s.global
}

// groupLimiter returns (or lazily creates) the limiter for the named group.
func (s *rateLimitState) groupLimiter(name string, rl *policy.RateLimitRule) *ratelimit.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.groups[name]; ok {
		return l
	}
	l := ratelimit.NewLimiter(float64(rl.Rate)/rl.Window.Seconds(), rl.Rate)
	s.groups[name] = l
	return l
}

// RateLimitUnaryClient returns a unary client interceptor that throttles
// outbound calls. When a policy resolver is provided and the method matches a
// group with a RateLimit rule, that per-group limiter is used; otherwise the
// global limiter applies.
func RateLimitUnaryClient(l *ratelimit.Limiter, r *policy.Resolver, mode LimitMode) grpc.UnaryClientInterceptor {
	st := &rateLimitState{global: l, resolver: r, groups: make(map[string]*ratelimit.Limiter)}
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if err := gate(ctx, st.limiterFor(method), mode); err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// RateLimitStreamClient returns a stream client interceptor that throttles
// stream establishment with the same limiter selection as the unary variant.
func RateLimitStreamClient(l *ratelimit.Limiter, r *policy.Resolver, mode LimitMode) grpc.StreamClientInterceptor {
	st := &rateLimitState{global: l, resolver: r, groups: make(map[string]*ratelimit.Limiter)}
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		if err := gate(ctx, st.limiterFor(method), mode); err != nil {
			return nil, err
		}
		return streamer(ctx, desc, cc, method, opts...)
	}
}

// TargetRateLimitUnaryClient returns a unary client interceptor that
// throttles calls per dial target, so one slow backend cannot consume the
// budget of its siblings.
func TargetRateLimitUnaryClient(k *ratelimit.Keyed, mode LimitMode) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		var target string
		if cc != nil {
			target = cc.Target()
		}
		if err := gate(ctx, k.Get(target), mode); err != nil {
			return err
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
