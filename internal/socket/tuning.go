// Package socket applies cross-platform TCP tuning to accepted
// connections and listener sockets. Platform-specific options live in
// tuning_linux.go / tuning_other.go behind build tags.
package socket

import (
	"net"
	"syscall"
	"time"
)

// Config is socket tuning configuration. Apply sets NoDelay and
// KeepAlive explicitly, so their zero values turn those options off;
// DefaultConfig returns the recommended values.
type Config struct {
	// NoDelay disables Nagle's algorithm. Default: true.
	NoDelay bool

	// KeepAlive enables TCP keepalive probes. Default: true.
	KeepAlive bool

	// KeepAlivePeriod is the interval between keepalive probes.
	// Default: 30s.
	KeepAlivePeriod time.Duration

	// ReusePort enables SO_REUSEPORT on the listening socket, letting
	// multiple acceptor goroutines each own a listener bound to the
	// same address (Linux only; ignored elsewhere).
	ReusePort bool

	// QuickAck requests TCP_QUICKACK on accepted connections (Linux
	// only; ignored elsewhere).
	QuickAck bool

	// FastOpen enables TCP Fast Open on the listening socket (Linux
	// only; ignored elsewhere).
	FastOpen bool
}

// DefaultConfig returns the recommended tuning for an HTTP listener.
func DefaultConfig() Config {
	return Config{
		NoDelay:         true,
		KeepAlive:       true,
		KeepAlivePeriod: 30 * time.Second,
		ReusePort:       false,
		QuickAck:        true,
		FastOpen:        true,
	}
}

// Apply tunes an accepted connection. Only the portable options
// (TCP_NODELAY, SO_KEEPALIVE) are touched here through net.TCPConn;
// platform-specific fd-level options are applied by ApplyPlatform.
func Apply(conn net.Conn, cfg Config) error {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}
	if err := tc.SetNoDelay(cfg.NoDelay); err != nil {
		return err
	}
	if err := tc.SetKeepAlive(cfg.KeepAlive); err != nil {
		return err
	}
	if cfg.KeepAlive && cfg.KeepAlivePeriod > 0 {
		if err := tc.SetKeepAlivePeriod(cfg.KeepAlivePeriod); err != nil {
			return err
		}
	}
	ApplyPlatform(tc, cfg)
	return nil
}

// ListenConfig builds a net.ListenConfig whose Control hook applies
// listener-level platform options (SO_REUSEPORT, TCP_FASTOPEN) before
// bind, so multiple acceptors can share an address when cfg.ReusePort
// is set.
func ListenConfig(cfg Config) net.ListenConfig {
	return net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			err := c.Control(func(fd uintptr) {
				ctrlErr = ApplyListenerPlatform(fd, cfg)
			})
			if err != nil {
				return err
			}
			return ctrlErr
		},
	}
}
