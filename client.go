package gostashsquirrel

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Keksclan/goStashSquirrel/breaker"
	"github.com/Keksclan/goStashSquirrel/interceptors"
	"github.com/Keksclan/goStashSquirrel/internal/core"
	"github.com/Keksclan/goStashSquirrel/ping"
	"github.com/Keksclan/goStashSquirrel/refcache"
	"github.com/Keksclan/goStashSquirrel/reference"
	"github.com/Keksclan/goStashSquirrel/respcache"
	"github.com/Keksclan/goStashSquirrel/security"
	"github.com/Keksclan/goStashSquirrel/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

// ErrTargetBlocked is returned by [Client.Reference] when the configured
// target guard denies the dial target.
var ErrTargetBlocked = errors.New("gostashsquirrel: target blocked")

// Client is a composable wrapper around the reference cache that layers
// outbound middleware (metadata, authentication, deadlines, tracing,
// response caching, retries, circuit breaking, rate limiting) via
// functional [Option] values passed to [NewClient].
//
// Connections obtained through [Client.Reference] are shared: callers
// asking for the same service identity get the same underlying connection,
// dialed once.
//
//	cli := gs.NewClient(gs.WithInsecure())
//	conn, err := cli.Reference("dns:///billing:443", "billing.Invoices")
//	inv := pb.NewInvoicesClient(conn)
type Client struct {
	cache     *refcache.Cache
	respCache respcache.Cache
	guard     *security.TargetGuard
	dialOpts  []grpc.DialOption
}

// NewClient creates a new [Client] by applying the supplied functional
// [Option] values and wiring the resulting unary and stream interceptor
// chains into the dial options every reference uses. Middleware execution
// order is determined by fixed priority levels (see package-level
// constants), not by the order options are passed.
//
// Example:
//
//	cli := gs.NewClient(
//		gs.WithMetadata(),
//		gs.WithRateLimitGlobal(500, 100),
//		gs.WithAuth(myTokenFunc),
//		gs.WithResponseCacheMemory(10_000),
//	)
func NewClient(opts ...Option) *Client {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	// When both memory and remote layers are configured, combine them into
	// a tiered cache.
	respCache := cfg.respCache
	switch {
	case cfg.memory != nil && cfg.remote != nil:
		respCache = respcache.NewTiered(cfg.memory, cfg.remote)
	case cfg.memory != nil:
		respCache = cfg.memory
	}

	if cfg.metadata {
		cfg.middlewares.Add(OrderMetadata, interceptors.MetadataUnaryClient(), interceptors.MetadataStreamClient())
	}
	if cfg.tokenFn != nil {
		cfg.middlewares.Add(OrderAuth, interceptors.AuthUnaryClient(cfg.tokenFn), interceptors.AuthStreamClient(cfg.tokenFn))
	}
	if cfg.defaultTimeout > 0 || cfg.resolver != nil {
		cfg.middlewares.Add(OrderTimeout, interceptors.TimeoutUnaryClient(cfg.resolver, cfg.defaultTimeout), nil)
	}
	if cfg.tracing != nil {
		cfg.middlewares.Add(OrderTracing, tracing.UnaryClientInterceptor(cfg.tracing), tracing.StreamClientInterceptor(cfg.tracing))
	}
	if respCache != nil && cfg.resolver != nil {
		cfg.middlewares.Add(OrderCache, interceptors.CacheUnaryClient(respCache, cfg.resolver), nil)
	}
	if cfg.retries && cfg.resolver != nil {
		cfg.middlewares.Add(OrderRetry, interceptors.RetryUnaryClient(cfg.resolver), nil)
	}
	if cfg.breakerCfg != nil {
		cfg.middlewares.Add(OrderBreaker, interceptors.BreakerUnaryClient(breaker.NewSet(*cfg.breakerCfg)), nil)
	}
	if cfg.global != nil {
		cfg.middlewares.Add(OrderRateLimit,
			interceptors.RateLimitUnaryClient(cfg.global, cfg.resolver, cfg.limitMode),
			interceptors.RateLimitStreamClient(cfg.global, cfg.resolver, cfg.limitMode))
	}
	if cfg.perTarget != nil {
		cfg.middlewares.Add(OrderRateLimit, interceptors.TargetRateLimitUnaryClient(cfg.perTarget, cfg.limitMode), nil)
	}

	unary, stream := cfg.middlewares.Build()
	dialOpts := core.BuildDialOptions(unary, stream, interceptors.ChainUnaryClient, interceptors.ChainStreamClient)
	dialOpts = append(dialOpts, cfg.dialOptions...)

	name := cfg.cacheName
	if name == "" {
		name = refcache.DefaultName
	}

	return &Client{
		cache:     refcache.GetCache(name, cfg.cacheOpts...),
		respCache: respCache,
		guard:     cfg.guard,
		dialOpts:  dialOpts,
	}
}

// Reference returns the shared connection for the given target and service,
// dialing it lazily on first use. The connection carries the client's
// interceptor chain. Concurrent callers asking for the same identity get
// the same connection.
func (c *Client) Reference(target, service string, opts ...reference.Option) (grpc.ClientConnInterface, error) {
	if c.guard != nil && !c.guard.Evaluate(target) {
		return nil, fmt.Errorf("%w: %s", ErrTargetBlocked, target)
	}

	all := make([]reference.Option, 0, len(opts)+1)
	all = append(all, reference.WithDialOptions(c.dialOpts...))
	all = append(all, opts...)

	return c.cache.Get(reference.New(target, service, all...))
}

// Destroy removes the reference with the given identity from the bound
// cache and tears down its connection. Unknown identities are a no-op.
func (c *Client) Destroy(target, service string, opts ...reference.Option) error {
	return c.cache.Destroy(reference.New(target, service, opts...))
}

// DestroyAll tears down every reference in the bound cache.
func (c *Client) DestroyAll() error {
	return c.cache.DestroyAll()
}

// Cache returns the reference cache this client is bound to.
func (c *Client) Cache() *refcache.Cache {
	return c.cache
}

// ResponseCache returns the configured response cache. It returns nil if no
// response cache was configured.
func (c *Client) ResponseCache() respcache.Cache {
	return c.respCache
}

// Ping calls the built-in stash.Ping service on target, sharing the cached
// connection with every other caller of that target.
func (c *Client) Ping(ctx context.Context, target, message string) (*ping.PingResponse, error) {
	conn, err := c.Reference(target, ping.ServiceDesc.ServiceName)
	if err != nil {
		return nil, err
	}
	return ping.NewClient(conn).Ping(ctx, &ping.PingRequest{Message: message})
}

// MetricsHandler returns an http.Handler that serves Prometheus metrics.
func (c *Client) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
