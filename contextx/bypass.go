package contextx

import "context"

// WithCacheBypass returns a derived context that marks the call as
// cache-bypassing: the response cache neither serves nor stores results
// for it. Useful for read-after-write paths that must observe the origin.
func WithCacheBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey, true)
}

// CacheBypassed reports whether ctx was marked with [WithCacheBypass].
func CacheBypassed(ctx context.Context) bool {
	b, _ := ctx.Value(bypassKey).(bool)
	return b
}
