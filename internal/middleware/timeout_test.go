package middleware

import (
	"errors"
	"testing"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
)

func TestRunWithTimeoutCompletesInTime(t *testing.T) {
	resp := &http1.Response{}
	want := errors.New("handler error")

	err := RunWithTimeout(TimeoutConfig{Duration: time.Second}, resp, func() error {
		return want
	})

	if err != want {
		t.Fatalf("expected passthrough error, got %v", err)
	}
	if resp.Status != 0 {
		t.Errorf("expected untouched status, got %d", resp.Status)
	}
}

func TestRunWithTimeoutFiresOnSlowHandler(t *testing.T) {
	resp := &http1.Response{}

	err := RunWithTimeout(TimeoutConfig{Duration: 10 * time.Millisecond}, resp, func() error {
		time.Sleep(time.Second)
		return nil
	})

	if err != nil {
		t.Fatalf("expected nil error on timeout, got %v", err)
	}
	if resp.Status != 408 {
		t.Errorf("expected status 408, got %d", resp.Status)
	}
}

func TestRunWithTimeoutCustomHandler(t *testing.T) {
	resp := &http1.Response{}
	called := false

	config := TimeoutConfig{
		Duration: 5 * time.Millisecond,
		Handler: func(resp *http1.Response, d time.Duration) {
			called = true
			resp.Status = 503
		},
	}

	_ = RunWithTimeout(config, resp, func() error {
		time.Sleep(time.Second)
		return nil
	})

	if !called {
		t.Fatalf("expected custom handler to be invoked")
	}
	if resp.Status != 503 {
		t.Errorf("expected status 503, got %d", resp.Status)
	}
}
