package respcache

import (
	"strings"
	"testing"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestRequestKey_StableForEqualRequests(t *testing.T) {
	a, err := RequestKey("/billing.Invoices/Get", &healthpb.HealthCheckRequest{Service: "billing"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	b, err := RequestKey("/billing.Invoices/Get", &healthpb.HealthCheckRequest{Service: "billing"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	if a != b {
		t.Fatalf("equal requests produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "/billing.Invoices/Get:") {
		t.Fatalf("key does not carry the method prefix: %q", a)
	}
}

func TestRequestKey_DistinguishesRequests(t *testing.T) {
	a, err := RequestKey("/svc/Get", &healthpb.HealthCheckRequest{Service: "alpha"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	b, err := RequestKey("/svc/Get", &healthpb.HealthCheckRequest{Service: "beta"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	if a == b {
		t.Fatal("different requests collapsed to the same key")
	}

	c, err := RequestKey("/svc/List", &healthpb.HealthCheckRequest{Service: "alpha"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	if a == c {
		t.Fatal("different methods collapsed to the same key")
	}
}

func TestRequestKey_JSONFallback(t *testing.T) {
	type query struct {
		ID string `json:"id"`
	}

	a, err := RequestKey("/svc/Get", query{ID: "1"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	b, err := RequestKey("/svc/Get", query{ID: "2"})
	if err != nil {
		t.Fatalf("RequestKey: %v", err)
	}
	if a == b {
		t.Fatal("different non-proto requests collapsed to the same key")
	}
}

func TestResponseRoundTrip_Proto(t *testing.T) {
	in := &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}

	data, err := MarshalResponse(in)
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}

	out := new(healthpb.HealthCheckResponse)
	if err := UnmarshalResponse(data, out); err != nil {
		t.Fatalf("UnmarshalResponse: %v", err)
	}
	if out.GetStatus() != in.GetStatus() {
		t.Fatalf("status = %v, want %v", out.GetStatus(), in.GetStatus())
	}
}

func TestResponseRoundTrip_JSON(t *testing.T) {
	type reply struct {
		Message string `json:"message"`
	}
	in := reply{Message: "hello"}

	data, err := MarshalResponse(in)
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}

	var out reply
	if err := UnmarshalResponse(data, &out); err != nil {
		t.Fatalf("UnmarshalResponse: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}
