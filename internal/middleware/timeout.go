package middleware

import (
	"time"

	"github.com/yourusername/httpcore/internal/http1"
)

// TimeoutConfig configures RunWithTimeout.
type TimeoutConfig struct {
	// Duration is the maximum time allowed for a handler to run.
	// Default: 30 seconds.
	Duration time.Duration

	// Handler builds the response body for a timed-out request. If
	// nil, a generic 408 JSON body is written.
	Handler func(resp *http1.Response, d time.Duration)
}

// DefaultTimeoutConfig returns the conventional 30-second budget.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{Duration: 30 * time.Second}
}

// RunWithTimeout runs call, writing a 408 response into resp if it
// does not finish within config.Duration.
//
// Like Recover, this does not fit the phase-callback shape: bounding a
// handler's own run time means racing its completion against a timer,
// which requires owning the call site, not a before/after hook. The
// session engine invokes this directly around Route.Handler instead
// of registering it as a phase middleware.
//
// call runs on a separate goroutine so a slow handler's eventual
// completion (or panic) doesn't block the timed-out response from
// being written; the goroutine is not stopped and its result is
// dropped on timeout. No Connection: close is added, so the
// connection stays open for keep-alive as after any other response.
func RunWithTimeout(config TimeoutConfig, resp *http1.Response, call func() error) error {
	d := config.Duration
	if d == 0 {
		d = 30 * time.Second
	}

	done := make(chan error, 1)
	go func() {
		done <- call()
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		if config.Handler != nil {
			config.Handler(resp, d)
			return nil
		}
		resp.Status = 408
		resp.Header.Add("Content-Type", "application/json")
		resp.Body = append(resp.Body[:0], []byte(`{"error":"request timeout"}`)...)
		return nil
	}
}
