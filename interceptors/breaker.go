package interceptors

import (
	"context"

	"github.com/Keksclan/goStashSquirrel/breaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errCircuitOpen is allocated once to avoid per-call allocations on the hot path.
var errCircuitOpen = status.Error(codes.Unavailable, "circuit open")

// trips reports whether err should count against the target's circuit.
// Caller-side mistakes (InvalidArgument, NotFound, ...) and local throttling
// say nothing about the target's health and are treated as successes.
func trips(err error) bool {
	if err == nil {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal, codes.Unknown:
		return true
	}
	return false
}

// BreakerUnaryClient returns a unary client interceptor that guards each
// target with its own circuit breaker. Calls against an open circuit fail
// immediately with codes.Unavailable, without touching the wire.
func BreakerUnaryClient(s *breaker.Set) grpc.UnaryClientInterceptor {
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
		b := s.Get(target)
		if !b.Allow() {
			return errCircuitOpen
		}

		err := invoker(ctx, method, req, reply, cc, opts...)
		if trips(err) {
			b.OnFailure()
		} else {
			b.OnSuccess()
		}
		return err
	}
}
