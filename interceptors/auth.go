package interceptors

import (
	"context"

	"github.com/Keksclan/goStashSquirrel/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// errUnauthenticated is allocated once to avoid per-call allocations on the hot path.
var errUnauthenticated = status.Error(codes.Unauthenticated, "unauthenticated")

// authError returns the original error if it is already a gRPC status error,
// otherwise wraps it as codes.Unauthenticated.
func authError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	return errUnauthenticated
}

// withToken merges the supplied metadata into the outgoing context,
// preserving any pairs already attached by the caller.
func withToken(ctx context.Context, md metadata.MD) context.Context {
	if len(md) == 0 {
		return ctx
	}
	if existing, ok := metadata.FromOutgoingContext(ctx); ok {
		md = metadata.Join(existing, md)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// AuthUnaryClient returns a unary client interceptor that calls the supplied
// TokenFunc and attaches the resulting metadata to the outgoing call. When
// the TokenFunc fails, the call is aborted before reaching the wire.
func AuthUnaryClient(fn auth.TokenFunc) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		md, err := fn(ctx, method)
		if err != nil {
			return authError(err)
		}
		return invoker(withToken(ctx, md), method, req, reply, cc, opts...)
	}
}

// AuthStreamClient returns a stream client interceptor that calls the
// supplied TokenFunc before the stream is established.
func AuthStreamClient(fn auth.TokenFunc) grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		md, err := fn(ctx, method)
		if err != nil {
			return nil, authError(err)
		}
		return streamer(withToken(ctx, md), desc, cc, method, opts...)
	}
}
