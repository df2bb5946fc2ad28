package gostashsquirrel

import (
	"time"

	"github.com/Keksclan/goStashSquirrel/auth"
	"github.com/Keksclan/goStashSquirrel/breaker"
	"github.com/Keksclan/goStashSquirrel/interceptors"
	"github.com/Keksclan/goStashSquirrel/policy"
	"github.com/Keksclan/goStashSquirrel/ratelimit"
	"github.com/Keksclan/goStashSquirrel/refcache"
	"github.com/Keksclan/goStashSquirrel/respcache"
	"github.com/Keksclan/goStashSquirrel/security"
	"github.com/Keksclan/goStashSquirrel/tracing"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Option configures a Client.
type Option func(*config)

// WithUnaryInterceptor appends a custom unary client interceptor. Custom
// interceptors run innermost, after all built-in middleware.
func WithUnaryInterceptor(i grpc.UnaryClientInterceptor) Option {
	return func(c *config) {
		c.middlewares.Add(OrderCustom, i, nil)
	}
}

// WithStreamInterceptor appends a custom stream client interceptor.
func WithStreamInterceptor(i grpc.StreamClientInterceptor) Option {
	return func(c *config) {
		c.middlewares.Add(OrderCustom, nil, i)
	}
}

// WithMetadata enables request-ID generation and service-group forwarding
// on every outgoing call.
func WithMetadata() Option {
	return func(c *config) { c.metadata = true }
}

// WithAuth attaches credential metadata produced by fn to every outgoing
// call. A failing fn aborts the call before it reaches the wire.
func WithAuth(fn auth.TokenFunc) Option {
	return func(c *config) { c.tokenFn = fn }
}

// WithTimeout sets the default per-call deadline. Method groups with a
// Timeout policy override it.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.defaultTimeout = d }
}

// WithPolicies installs per-method call policies (timeouts, retries,
// response caching, rate limits), resolved per call by longest match.
func WithPolicies(groups ...*policy.GroupBuilder) Option {
	return func(c *config) { c.resolver = policy.NewResolver(groups...) }
}

// WithOpenTelemetry enables client-side tracing. A nil cfg uses the global
// tracer provider and propagators.
func WithOpenTelemetry(cfg *tracing.TracingConfig) Option {
	return func(c *config) {
		if cfg == nil {
			cfg = &tracing.TracingConfig{}
		}
		c.tracing = cfg
	}
}

// WithResponseCacheMemory configures an in-process response cache with the
// given cost budget in bytes. Non-positive budgets leave the cache unset.
// Responses are cached only for method groups carrying a Cache policy.
func WithResponseCacheMemory(maxCost int64) Option {
	return func(c *config) {
		if m, err := respcache.NewMemory(maxCost); err == nil {
			c.memory = m
		}
	}
}

// WithResponseCacheRemote adds a remote response-cache layer (Redis or
// Memcached). It takes effect only in combination with
// WithResponseCacheMemory; the two are composed into a tiered cache.
func WithResponseCacheRemote(layer respcache.Layer) Option {
	return func(c *config) { c.remote = layer }
}

// WithResponseCache installs a pre-built response cache, bypassing the
// memory/remote composition rule.
func WithResponseCache(cache respcache.Cache) Option {
	return func(c *config) { c.respCache = cache }
}

// WithCircuitBreaker guards every dial target with its own circuit breaker.
// Zero config fields fall back to breaker.DefaultConfig.
func WithCircuitBreaker(cfg breaker.Config) Option {
	return func(c *config) { c.breakerCfg = &cfg }
}

// WithRetries re-invokes failed calls for method groups whose policy
// carries a Retry rule. Without policies this option has no effect.
func WithRetries() Option {
	return func(c *config) { c.retries = true }
}

// WithRateLimitGlobal throttles all outgoing calls to rps with the given
// burst. Method groups with a RateLimit policy get their own budget.
func WithRateLimitGlobal(rps float64, burst int) Option {
	return func(c *config) { c.global = ratelimit.NewLimiter(rps, burst) }
}

// WithRateLimitPerTarget gives every dial target its own token bucket, so
// one slow backend cannot consume the budget of its siblings.
func WithRateLimitPerTarget(rps float64, burst int) Option {
	return func(c *config) { c.perTarget = ratelimit.NewKeyed(rps, burst) }
}

// WithRateLimitWait makes exhausted limiters pace calls instead of
// rejecting them: callers block until a token arrives or their context
// ends.
func WithRateLimitWait() Option {
	return func(c *config) { c.limitMode = interceptors.Wait }
}

// WithTargetGuard screens dial targets before references are handed out.
func WithTargetGuard(g *security.TargetGuard) Option {
	return func(c *config) { c.guard = g }
}

// WithCacheName binds the client to the named reference cache instead of
// the process-wide default. Clients naming the same cache share its
// references.
func WithCacheName(name string) Option {
	return func(c *config) { c.cacheName = name }
}

// WithKeyGenerator sets the key generator used when the bound reference
// cache is first created. A cache that already exists keeps its original
// generator.
func WithKeyGenerator(gen refcache.KeyGenerator) Option {
	return func(c *config) {
		c.cacheOpts = append(c.cacheOpts, refcache.WithKeyGenerator(gen))
	}
}

// WithDialOptions appends extra gRPC dial options applied to every
// reference this client creates.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *config) { c.dialOptions = append(c.dialOptions, opts...) }
}

// WithInsecure dials references without transport security.
func WithInsecure() Option {
	return func(c *config) {
		c.dialOptions = append(c.dialOptions, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
}
