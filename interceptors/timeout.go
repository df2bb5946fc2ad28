package interceptors

import (
	"context"
	"time"

	"github.com/Keksclan/goStashSquirrel/policy"
	"google.golang.org/grpc"
)

// callTimeout returns the timeout for fullMethod: the policy value when the
// resolver matches a group with one, otherwise the default.
func callTimeout(r *policy.Resolver, fullMethod string, def time.Duration) time.Duration {
	if r != nil {
		if _, pol, ok := r.Resolve(fullMethod); ok && pol != nil && pol.Timeout > 0 {
			return pol.Timeout
		}
	}
	return def
}

// TimeoutUnaryClient returns a unary client interceptor that bounds each call
// with a deadline. A per-method policy timeout overrides def; a zero timeout
// leaves the context untouched. An earlier deadline set by the caller always
// wins because context cancellation propagates from the parent.
func TimeoutUnaryClient(r *policy.Resolver, def time.Duration) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if d := callTimeout(r, method, def); d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}
