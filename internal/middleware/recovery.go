package middleware

import (
	"fmt"
	"log"
	"runtime/debug"

	"github.com/yourusername/httpcore/internal/http1"
)

// RecoveryConfig configures Recover.
type RecoveryConfig struct {
	// PrintStack enables stack trace logging (default true).
	PrintStack bool

	// Output receives "PANIC: ..." log lines. Defaults to log.Default().
	Output *log.Logger

	// Handler builds the response body for a recovered panic. If nil,
	// a generic JSON error body is written.
	Handler func(resp *http1.Response, recovered any)
}

// DefaultRecoveryConfig returns the conventional settings: print the
// stack, log to the standard logger, generic 500 body.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{PrintStack: true}
}

// Recover wraps a handler invocation with panic recovery, writing a
// 500 response in place of letting the panic escape.
//
// This does not fit the flat (req, resp) bool phase-callback shape
// the rest of this package uses: recovering a handler panic requires
// wrapping the handler call itself in a deferred recover, not
// observing a request/response pair before or after it runs. The
// session engine calls this directly around Route.Handler instead of
// registering it as a phase middleware.
func Recover(config RecoveryConfig, resp *http1.Response, call func() error) (err error) {
	out := config.Output
	if out == nil {
		out = log.Default()
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if config.PrintStack {
			out.Printf("PANIC: %v\n%s", r, debug.Stack())
		} else {
			out.Printf("PANIC: %v", r)
		}

		if config.Handler != nil {
			config.Handler(resp, r)
			return
		}
		resp.Status = 500
		resp.Header.Add("Content-Type", "application/json")
		resp.Body = append(resp.Body[:0], []byte(fmt.Sprintf(`{"error":"internal server error","panic":%q}`, fmt.Sprintf("%v", r)))...)
	}()

	return call()
}
