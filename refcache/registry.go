package refcache

import "sync"

// DefaultName is the cache name used when the caller does not pick one.
const DefaultName = "_DEFAULT_"

// CacheOption configures a cache at creation time. Options are ignored when
// the named cache already exists; in particular, an existing cache's key
// generator is never replaced.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	gen KeyGenerator
}

// WithKeyGenerator binds gen to the cache instead of the default generator.
func WithKeyGenerator(gen KeyGenerator) CacheOption {
	return func(c *cacheConfig) {
		c.gen = gen
	}
}

// Registry maps cache names to Cache instances, creating each cache lazily
// on first request. Caches are never removed; the registry lives as long as
// the process (or the test that constructed a private one).
type Registry struct {
	caches sync.Map // name (string) -> *Cache
}

// NewRegistry returns an empty registry. Most callers want the package's
// process-wide default (via [GetCache] or [Default]); private registries
// exist so tests can avoid shared state.
func NewRegistry() *Registry {
	return &Registry{}
}

// Cache returns the cache registered under name, creating it with the
// supplied options when absent. Under concurrent calls for a new name
// exactly one instance survives and every caller gets that one.
func (r *Registry) Cache(name string, opts ...CacheOption) *Cache {
	// Fast path: the common case is a registry hit, where options play no
	// role at all.
	if c, ok := r.caches.Load(name); ok {
		return c.(*Cache)
	}

	cfg := cacheConfig{gen: DefaultKeyGenerator()}
	for _, o := range opts {
		o(&cfg)
	}
	actual, _ := r.caches.LoadOrStore(name, newCache(name, cfg.gen))
	return actual.(*Cache)
}

// defaultRegistry backs the package-level accessors. An empty registry is
// cheap, so eager initialization costs nothing.
var defaultRegistry = NewRegistry()

// GetCache returns the named cache from the process-wide registry, creating
// it on first use.
func GetCache(name string, opts ...CacheOption) *Cache {
	return defaultRegistry.Cache(name, opts...)
}

// Default returns the process-wide cache registered under [DefaultName].
func Default() *Cache {
	return GetCache(DefaultName)
}
