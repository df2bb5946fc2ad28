package contextx

import "context"

// WithGroup returns a derived context that carries a service group name.
// The metadata interceptor forwards it to the remote side so grouped
// deployments can route the call.
func WithGroup(ctx context.Context, group string) context.Context {
	return context.WithValue(ctx, groupKey, group)
}

// GroupFromContext extracts the service group stored in ctx.
// It returns an empty string when no group is present.
func GroupFromContext(ctx context.Context) string {
	g, _ := ctx.Value(groupKey).(string)
	return g
}
