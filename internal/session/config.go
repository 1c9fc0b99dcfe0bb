package session

import (
	"time"

	"github.com/yourusername/httpcore/internal/http1"
)

// Listener describes one endpoint an Acceptor binds: an address
// family, address, port, backlog, read/write timeout, and whether it
// terminates TLS.
type Listener struct {
	// IPAddr is the address to bind, e.g. "0.0.0.0" or "::".
	IPAddr string
	Port   int
	// IPVersion is 4 or 6, selecting "tcp4"/"tcp6"; 0 uses "tcp"
	// (either family).
	IPVersion int
	Backlog   int
	// TimeoutMS bounds a single read/write call on this listener's
	// connections; a read that delivers nothing within the window
	// ends the session.
	TimeoutMS int
	// SSL, when true, expects a stream.Handler constructed by a TLS
	// implementation rather than stream.NewPlain.
	SSL bool
}

// Timeout returns Listener.TimeoutMS as a time.Duration, or 0 if
// unset (no deadline).
func (l Listener) Timeout() time.Duration {
	if l.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(l.TimeoutMS) * time.Millisecond
}

// Network returns the net.Listen network string for this listener's
// IPVersion.
func (l Listener) Network() string {
	switch l.IPVersion {
	case 4:
		return "tcp4"
	case 6:
		return "tcp6"
	default:
		return "tcp"
	}
}

// Config is the session engine's tunable surface: a Config/
// DefaultConfig pair, extended with the listener and per-route policy
// fields a real deployment needs.
type Config struct {
	Listeners []Listener

	// Limits bounds a single request's parse; a route's METADATA
	// middleware may narrow it further per request via
	// http1.Request.Policy.
	Limits http1.Limits

	// ReadBufferSize is the size of the per-connection read buffer
	// fed to the parser.
	ReadBufferSize int

	// MaxRequestsPerConnection bounds keep-alive reuse; 0 means
	// unlimited.
	MaxRequestsPerConnection int

	// KeepAliveTimeout is stored but not read by the session engine:
	// an idle, reusable connection waits for its next request until
	// the peer closes it or the listener's deadline (TimeoutMS)
	// expires.
	KeepAliveTimeout time.Duration

	// HandlerTimeout bounds a single handler invocation; 0 disables
	// the timeout wrapper entirely.
	HandlerTimeout time.Duration

	// UseLockFreeRouter selects RouterLockFree over the mutex-guarded
	// Router.
	UseLockFreeRouter bool
}

// DefaultConfig returns the conventional defaults: one plaintext
// listener on :8080, 64 KiB read buffer, 8 MiB body cap, a 60s
// KeepAliveTimeout value, 30s handler timeout.
func DefaultConfig() Config {
	return Config{
		Listeners: []Listener{
			{IPAddr: "0.0.0.0", Port: 8080, Backlog: 1024, TimeoutMS: 30000},
		},
		Limits:                   http1.DefaultLimits(),
		ReadBufferSize:           64 * 1024,
		MaxRequestsPerConnection: 0,
		KeepAliveTimeout:         60 * time.Second,
		HandlerTimeout:           30 * time.Second,
		UseLockFreeRouter:        false,
	}
}
