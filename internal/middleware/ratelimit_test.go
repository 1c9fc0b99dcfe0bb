package middleware

import (
	"testing"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
)

func TestRateLimitAllowsBurstThenRejects(t *testing.T) {
	fn := RateLimit(RateLimitConfig{RequestsPerSecond: 2, Burst: 2})

	req := &http1.Request{Method: "GET"}

	for i := 0; i < 2; i++ {
		resp := &http1.Response{}
		if ok := fn(req, resp); !ok {
			t.Fatalf("request %d: expected allowed", i+1)
		}
	}

	resp := &http1.Response{}
	if ok := fn(req, resp); ok {
		t.Fatalf("expected third request to be rate limited")
	}
	if resp.Status != 429 {
		t.Errorf("expected status 429, got %d", resp.Status)
	}
}

func TestRateLimitRefillsOverTime(t *testing.T) {
	fn := RateLimit(RateLimitConfig{RequestsPerSecond: 100, Burst: 1})
	req := &http1.Request{Method: "GET"}

	if ok := fn(req, &http1.Response{}); !ok {
		t.Fatalf("first request should be allowed")
	}
	if ok := fn(req, &http1.Response{}); ok {
		t.Fatalf("second immediate request should be rejected")
	}

	time.Sleep(20 * time.Millisecond)

	if ok := fn(req, &http1.Response{}); !ok {
		t.Fatalf("request after refill window should be allowed")
	}
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	fn := RateLimit(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		KeyFunc: func(req *http1.Request) string {
			v, _ := req.Header.At("x-real-ip")
			return v
		},
	})

	reqA := &http1.Request{Method: "GET"}
	reqA.Header.Add("X-Real-IP", "1.1.1.1")
	reqB := &http1.Request{Method: "GET"}
	reqB.Header.Add("X-Real-IP", "2.2.2.2")

	if ok := fn(reqA, &http1.Response{}); !ok {
		t.Fatalf("reqA first call should be allowed")
	}
	if ok := fn(reqB, &http1.Response{}); !ok {
		t.Fatalf("reqB should have its own bucket")
	}
	if ok := fn(reqA, &http1.Response{}); ok {
		t.Fatalf("reqA second call should be rejected")
	}
}
