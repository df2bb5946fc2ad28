// Package grpctest provides an in-process gRPC server harness for tests.
// Servers listen on an in-memory bufconn listener; no network ports are
// opened.
package grpctest

import (
	"context"
	"net"
	"testing"

	"github.com/Keksclan/goStashSquirrel/ping"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// Server wraps a gRPC server bound to an in-memory listener.
type Server struct {
	lis        *bufconn.Listener
	grpcServer *grpc.Server
}

// StartPing starts an in-process server serving the stash.Ping service with
// the given handler. The server is stopped via t.Cleanup.
func StartPing(t *testing.T, h ping.Handler, opts ...grpc.ServerOption) *Server {
	t.Helper()
	s := &Server{
		lis:        bufconn.Listen(bufSize),
		grpcServer: grpc.NewServer(opts...),
	}
	ping.Register(s.grpcServer, h)
	t.Cleanup(s.grpcServer.Stop)
	go func() { _ = s.grpcServer.Serve(s.lis) }()
	return s
}

// Target returns the passthrough target clients should dial.
func (s *Server) Target() string {
	return "passthrough:///bufconn"
}

// DialOption returns the dial option that routes connections to the
// in-memory listener.
func (s *Server) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return s.lis.DialContext(ctx)
	})
}
