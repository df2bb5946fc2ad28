package gostashsquirrel

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Keksclan/goStashSquirrel/refcache"
	"google.golang.org/grpc"
)

func TestNewClientReturnsNonNil(t *testing.T) {
	c := NewClient()
	if c == nil {
		t.Fatal("NewClient() returned nil")
	}
}

func TestCacheReturnsBoundCache(t *testing.T) {
	c := NewClient()
	if c.Cache() == nil {
		t.Fatal("Cache() returned nil")
	}
	if c.Cache().Name() != refcache.DefaultName {
		t.Fatalf("expected default cache, got %q", c.Cache().Name())
	}
}

func TestWithCacheNameBindsNamedCache(t *testing.T) {
	c := NewClient(WithCacheName("billing"))
	if c.Cache().Name() != "billing" {
		t.Fatalf("expected cache %q, got %q", "billing", c.Cache().Name())
	}
}

func TestClientsShareNamedCache(t *testing.T) {
	a := NewClient(WithCacheName("shared"))
	b := NewClient(WithCacheName("shared"))
	if a.Cache() != b.Cache() {
		t.Fatal("clients naming the same cache must share it")
	}
}

func TestMetricsHandlerImplementsHTTPHandler(t *testing.T) {
	c := NewClient()
	var h http.Handler = c.MetricsHandler()
	if h == nil {
		t.Fatal("MetricsHandler() returned nil")
	}
}

func TestResponseCacheNilByDefault(t *testing.T) {
	c := NewClient()
	if c.ResponseCache() != nil {
		t.Fatal("expected no response cache by default")
	}
}

func TestResponseCacheMemory(t *testing.T) {
	c := NewClient(WithResponseCacheMemory(1 << 20))
	rc := c.ResponseCache()
	if rc == nil {
		t.Fatal("expected a response cache")
	}

	if err := rc.Set(t.Context(), "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := rc.Get(t.Context(), "k")
	if err != nil || !ok || string(val) != "v" {
		t.Fatalf("Get = %q, %v, %v", val, ok, err)
	}
}

func TestNewClientWithInterceptors(t *testing.T) {
	c := NewClient(
		WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			return invoker(ctx, method, req, reply, cc, opts...)
		}),
		WithStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			return streamer(ctx, desc, cc, method, opts...)
		}),
	)
	if c.Cache() == nil {
		t.Fatal("Cache() returned nil after options applied")
	}
}

func TestDefaultOptionsEnableMetadata(t *testing.T) {
	var cfg config
	for _, o := range DefaultOptions() {
		o(&cfg)
	}
	if !cfg.metadata {
		t.Fatal("DefaultOptions() should enable metadata propagation")
	}
}

func TestOptionFunc(t *testing.T) {
	// Compile-time check that Option is a func(*config).
	var _ Option = func(c *config) {
		_ = c
	}
}
