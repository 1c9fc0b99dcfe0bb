package router

import (
	"testing"

	"github.com/yourusername/httpcore/internal/http1"
)

func TestOnStatusRegistersAndRetrieves(t *testing.T) {
	r := New()
	custom := func(req *http1.Request, resp *http1.Response) error {
		resp.Body = append(resp.Body, "custom not found"...)
		return nil
	}
	r.OnStatus(404, custom)

	h, ok := r.StatusHandler(404)
	if !ok {
		t.Fatal("expected a registered 404 handler")
	}
	resp := &http1.Response{}
	if err := h(&http1.Request{}, resp); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if string(resp.Body) != "custom not found" {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestStatusHandlerMissingReturnsFalse(t *testing.T) {
	r := New()
	if _, ok := r.StatusHandler(500); ok {
		t.Error("expected no handler registered for 500")
	}
}

func TestLockFreeOnStatusRegistersAndRetrieves(t *testing.T) {
	r := NewLockFree()
	r.OnStatus(500, func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 500
		return nil
	})

	h, ok := r.StatusHandler(500)
	if !ok {
		t.Fatal("expected a registered 500 handler")
	}
	resp := &http1.Response{}
	h(&http1.Request{}, resp)
	if resp.Status != 500 {
		t.Errorf("expected status 500, got %d", resp.Status)
	}
}
