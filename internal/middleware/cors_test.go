package middleware

import (
	"testing"

	"github.com/yourusername/httpcore/internal/http1"
)

func TestCORSSetsWildcardOrigin(t *testing.T) {
	fn := CORS(DefaultCORSConfig())

	req := &http1.Request{Method: "GET"}
	req.Header.Add("Origin", "https://example.com")
	resp := &http1.Response{}

	if ok := fn(req, resp); !ok {
		t.Fatalf("expected GET to continue the chain")
	}
	if v, _ := resp.Header.At("access-control-allow-origin"); v != "*" {
		t.Errorf("expected wildcard origin, got %q", v)
	}
}

func TestCORSRestrictsToAllowList(t *testing.T) {
	fn := CORS(CORSConfig{AllowOrigins: []string{"https://allowed.example"}})

	req := &http1.Request{Method: "GET"}
	req.Header.Add("Origin", "https://denied.example")
	resp := &http1.Response{}

	fn(req, resp)
	if resp.Header.Contains("access-control-allow-origin") {
		t.Errorf("expected no allow-origin header for a denied origin")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	fn := CORS(DefaultCORSConfig())

	req := &http1.Request{Method: "OPTIONS"}
	req.Header.Add("Origin", "https://example.com")
	resp := &http1.Response{}

	if ok := fn(req, resp); ok {
		t.Fatalf("expected OPTIONS preflight to short-circuit")
	}
	if resp.Status != 204 {
		t.Errorf("expected status 204, got %d", resp.Status)
	}
	if !resp.Header.Contains("access-control-allow-methods") {
		t.Errorf("expected allow-methods header on preflight response")
	}
}
