package core

import "google.golang.org/grpc"

// BuildDialOptions translates interceptor slices into grpc.DialOption values
// that can be passed to grpc.NewClient. This keeps the wiring logic isolated
// from the public API surface.
func BuildDialOptions(
	unary []grpc.UnaryClientInterceptor,
	stream []grpc.StreamClientInterceptor,
	chainUnary func([]grpc.UnaryClientInterceptor) grpc.UnaryClientInterceptor,
	chainStream func([]grpc.StreamClientInterceptor) grpc.StreamClientInterceptor,
) []grpc.DialOption {
	var opts []grpc.DialOption

	if u := chainUnary(unary); u != nil {
		opts = append(opts, grpc.WithUnaryInterceptor(u))
	}

	if s := chainStream(stream); s != nil {
		opts = append(opts, grpc.WithStreamInterceptor(s))
	}

	return opts
}
