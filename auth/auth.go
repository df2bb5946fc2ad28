// Package auth provides the credential callback type used by the optional
// token-attaching middleware.
package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// TokenFunc is a user-supplied callback that produces credential metadata
// for an outbound gRPC call. It receives the call context and the full
// method name; on success it returns the metadata pairs to merge into the
// outgoing metadata.
//
// The library does NOT mint or refresh tokens; that is the responsibility
// of the TokenFunc implementation.
type TokenFunc func(ctx context.Context, fullMethod string) (metadata.MD, error)
