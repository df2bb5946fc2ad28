package gostashsquirrel

import (
	"time"

	"github.com/Keksclan/goStashSquirrel/auth"
	"github.com/Keksclan/goStashSquirrel/breaker"
	"github.com/Keksclan/goStashSquirrel/interceptors"
	"github.com/Keksclan/goStashSquirrel/internal/core"
	"github.com/Keksclan/goStashSquirrel/policy"
	"github.com/Keksclan/goStashSquirrel/ratelimit"
	"github.com/Keksclan/goStashSquirrel/refcache"
	"github.com/Keksclan/goStashSquirrel/respcache"
	"github.com/Keksclan/goStashSquirrel/security"
	"github.com/Keksclan/goStashSquirrel/tracing"
	"google.golang.org/grpc"
)

// Middleware execution order. Lower values run earlier, i.e. further from
// the wire. Options register their interceptors at these fixed levels, so
// the shape of the chain does not depend on the order options are passed.
//
// Retries run outside the breaker so that every attempt is recorded
// individually, and rate limiting sits innermost so that every retry
// attempt pays for its own token.
const (
	OrderMetadata  = 100
	OrderAuth      = 200
	OrderTimeout   = 300
	OrderTracing   = 400
	OrderCache     = 500
	OrderRetry     = 600
	OrderBreaker   = 700
	OrderRateLimit = 800
	OrderCustom    = 900
)

// config holds the internal configuration assembled via functional options.
type config struct {
	middlewares core.MiddlewareBuilder // user-supplied interceptors land here at OrderCustom

	resolver *policy.Resolver

	metadata bool
	tokenFn  auth.TokenFunc

	defaultTimeout time.Duration

	tracing *tracing.TracingConfig

	memory    *respcache.Memory
	remote    respcache.Layer
	respCache respcache.Cache

	breakerCfg *breaker.Config
	retries    bool

	global    *ratelimit.Limiter
	perTarget *ratelimit.Keyed
	limitMode interceptors.LimitMode

	guard *security.TargetGuard

	cacheName string
	cacheOpts []refcache.CacheOption

	dialOptions []grpc.DialOption
}
