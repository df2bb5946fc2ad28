package interceptors

import (
	"context"

	"github.com/Keksclan/goStashSquirrel/policy"
	"github.com/Keksclan/goStashSquirrel/retry"
	"google.golang.org/grpc"
)

// retryConfig returns the retry configuration for fullMethod, or ok=false
// when its policy carries no retry rule.
func retryConfig(r *policy.Resolver, fullMethod string) (retry.Config, bool) {
	if r == nil {
		return retry.Config{}, false
	}
	_, pol, ok := r.Resolve(fullMethod)
	if !ok || pol == nil || pol.Retry == nil {
		return retry.Config{}, false
	}
	cfg := retry.DefaultConfig()
	if pol.Retry.MaxAttempts > 0 {
		cfg.MaxAttempts = pol.Retry.MaxAttempts
	}
	return cfg, true
}

// RetryUnaryClient returns a unary client interceptor that re-invokes failed
// calls for methods whose policy enables retries. Only status codes listed in
// the retry configuration are retried; everything else fails on the first
// attempt. Methods without a retry rule are invoked exactly once.
func RetryUnaryClient(r *policy.Resolver) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		cfg, ok := retryConfig(r, method)
		if !ok {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		return retry.Exec(ctx, cfg, func(ctx context.Context) error {
			return invoker(ctx, method, req, reply, cc, opts...)
		})
	}
}
