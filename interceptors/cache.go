package interceptors

import (
	"context"

	"github.com/Keksclan/goStashSquirrel/contextx"
	"github.com/Keksclan/goStashSquirrel/policy"
	"github.com/Keksclan/goStashSquirrel/respcache"
	"google.golang.org/grpc"
)

// cacheRule returns the cache rule for fullMethod when the resolver matches a
// group with one.
func cacheRule(r *policy.Resolver, fullMethod string) *policy.CacheRule {
	if r == nil {
		return nil
	}
	if _, pol, ok := r.Resolve(fullMethod); ok && pol != nil && pol.Cache != nil {
		return pol.Cache
	}
	return nil
}

// CacheUnaryClient returns a unary client interceptor that serves responses
// from the cache for methods whose policy carries a cache rule. Lookups and
// stores are fail-soft: a backend problem or an unserializable payload turns
// into a plain invocation, never an error. A context marked with
// contextx.WithCacheBypass skips the cache in both directions.
//
// Streams are never cached; there is no stream counterpart.
func CacheUnaryClient(c respcache.Cache, r *policy.Resolver) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		rule := cacheRule(r, method)
		if c == nil || rule == nil || rule.TTL <= 0 || contextx.CacheBypassed(ctx) {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		key, err := respcache.RequestKey(method, req)
		if err != nil {
			return invoker(ctx, method, req, reply, cc, opts...)
		}

		if data, ok, _ := c.Get(ctx, key); ok {
			if err := respcache.UnmarshalResponse(data, reply); err == nil {
				return nil
			}
			// Undecodable entry: treat as a miss and refresh it below.
		}

		if err := invoker(ctx, method, req, reply, cc, opts...); err != nil {
			return err
		}
		if data, err := respcache.MarshalResponse(reply); err == nil {
			_ = c.Set(ctx, key, data, rule.TTL)
		}
		return nil
	}
}
