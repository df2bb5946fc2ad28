package interceptors

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/Keksclan/goStashSquirrel/contextx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Metadata keys used for propagating call context to the server side.
const (
	requestIDHeader = "x-request-id"
	groupHeader     = "x-group"
)

// newRequestID generates a random hex-encoded request identifier.
func newRequestID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return hex.EncodeToString(buf[:])
}

// ensureRequestID returns the context enriched with a request ID if one is not
// already present.
func ensureRequestID(ctx context.Context) context.Context {
	if contextx.RequestIDFromContext(ctx) == "" {
		ctx = contextx.WithRequestID(ctx, newRequestID())
	}
	return ctx
}

// annotate attaches the request ID and, when present, the service group to
// the outgoing metadata. Existing pairs are preserved.
func annotate(ctx context.Context) context.Context {
	ctx = ensureRequestID(ctx)
	pairs := []string{requestIDHeader, contextx.RequestIDFromContext(ctx)}
	if g := contextx.GroupFromContext(ctx); g != "" {
		pairs = append(pairs, groupHeader, g)
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// MetadataUnaryClient returns a unary client interceptor that ensures a
// request ID is present and forwards it, along with the service group, as
// outgoing metadata.
func MetadataUnaryClient() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(annotate(ctx), method, req, reply, cc, opts...)
	}
}

// MetadataStreamClient returns a stream client interceptor that forwards the
// request ID and service group on the stream's outgoing metadata.
func MetadataStreamClient() grpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *grpc.StreamDesc,
		cc *grpc.ClientConn,
		method string,
		streamer grpc.Streamer,
		opts ...grpc.CallOption,
	) (grpc.ClientStream, error) {
		return streamer(annotate(ctx), desc, cc, method, opts...)
	}
}
