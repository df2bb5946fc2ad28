package ping_test

import (
	"context"
	"net"
	"slices"
	"testing"
	"time"

	"github.com/Keksclan/goStashSquirrel/ping"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

func startServer(t *testing.T, h ping.Handler) *bufconn.Listener {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	ping.Register(s, h)
	t.Cleanup(func() { s.Stop() })
	go func() { _ = s.Serve(lis) }()
	return lis
}

func dial(t *testing.T, lis *bufconn.Listener) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRegisterService(t *testing.T) {
	s := grpc.NewServer()
	ping.Register(s, ping.DefaultHandler())
	info := s.GetServiceInfo()
	si, ok := info["stash.Ping"]
	if !ok {
		t.Fatal("stash.Ping service not registered")
	}
	found := false
	for _, m := range si.Methods {
		if m.Name == "Ping" {
			found = true
		}
	}
	if !found {
		t.Fatal("Ping method not found in service info")
	}
}

func TestPingViaBufconn(t *testing.T) {
	lis := startServer(t, ping.DefaultHandler())
	conn := dial(t, lis)

	req := &ping.PingRequest{Message: "hello"}
	resp := new(ping.PingResponse)

	err := conn.Invoke(t.Context(), ping.FullMethod, req, resp)
	if err != nil {
		t.Fatalf("Ping RPC failed: %v", err)
	}
	if resp.Message != "hello" {
		t.Fatalf("expected message %q, got %q", "hello", resp.Message)
	}
	if resp.ServerTimeUnix == 0 {
		t.Fatal("ServerTimeUnix should be non-zero")
	}
	// Verify the timestamp is recent (within last 5 seconds).
	if diff := time.Now().Unix() - resp.ServerTimeUnix; diff < 0 || diff > 5 {
		t.Fatalf("ServerTimeUnix is not recent: %d (diff %d)", resp.ServerTimeUnix, diff)
	}
}

func TestPingEmptyMessage(t *testing.T) {
	lis := startServer(t, ping.DefaultHandler())
	conn := dial(t, lis)

	req := &ping.PingRequest{}
	resp := new(ping.PingResponse)

	err := conn.Invoke(t.Context(), ping.FullMethod, req, resp)
	if err != nil {
		t.Fatalf("Ping RPC failed: %v", err)
	}
	if resp.Message != "" {
		t.Fatalf("expected empty message, got %q", resp.Message)
	}
}

func TestTypedClient(t *testing.T) {
	lis := startServer(t, ping.DefaultHandler())
	conn := dial(t, lis)

	client := ping.NewClient(conn)
	resp, err := client.Ping(t.Context(), &ping.PingRequest{Message: "typed"})
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if resp.Message != "typed" {
		t.Fatalf("expected message %q, got %q", "typed", resp.Message)
	}
}

func TestFunHandlerMessages(t *testing.T) {
	// The fun handler either echoes the request or substitutes one of its
	// stock phrases; anything else is a bug.
	known := []string{
		"Squirrel power!",
		"Stashed an acorn for you!",
		"Tail flick activated!",
		"Scurry mode engaged!",
		"Nuts about this request!",
	}

	h := ping.FunHandler(nil)
	for range 50 {
		resp, err := h.Ping(t.Context(), &ping.PingRequest{Message: "echo"})
		if err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
		if resp.Message != "echo" && !slices.Contains(known, resp.Message) {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	}
}
