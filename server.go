// Package httpcore wires the router, session engine, and acceptor
// into a single deployable server, and is the public entry point for
// everything under internal/.
package httpcore

import (
	"context"
	"crypto/tls"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/httpcore/internal/accept"
	"github.com/yourusername/httpcore/internal/router"
	"github.com/yourusername/httpcore/internal/session"
	"github.com/yourusername/httpcore/internal/tlsstream"
)

// Router re-exports router.IRouter so callers never need to import
// internal/router directly.
type Router = router.IRouter

// Handler re-exports router.Handler.
type Handler = router.Handler

// MiddlewareFunc re-exports router.MiddlewareFunc.
type MiddlewareFunc = router.MiddlewareFunc

// Config re-exports session.Config, the server's full tunable
// surface (listeners, limits, timeouts).
type Config = session.Config

// DefaultConfig returns session.DefaultConfig(), the conventional
// single plaintext :8080 listener with production-sane timeouts.
func DefaultConfig() Config { return session.DefaultConfig() }

// NewRouter returns an empty mutex-guarded router. Use NewLockFreeRouter
// instead when routes are registered once at startup and matched
// under heavy concurrent read load.
func NewRouter() Router { return router.New() }

// NewLockFreeRouter returns an empty copy-on-write router.
func NewLockFreeRouter() Router { return router.NewLockFree() }

// Server ties a Router and Config to a running Acceptor.
type Server struct {
	router   Router
	cfg      Config
	acceptor *accept.Acceptor
	logger   *log.Logger
}

// New builds a Server that will serve r under cfg once Run is called.
// Pass a non-nil tlsConfig to terminate TLS on any listener whose SSL
// field is set; nil means those listeners fail at accept time.
func New(r Router, cfg Config, tlsConfig *tls.Config) *Server {
	var factory accept.TLSFactory
	if tlsConfig != nil {
		factory = tlsstream.Factory(tlsConfig)
	}
	return &Server{
		router:   r,
		cfg:      cfg,
		acceptor: accept.New(r, cfg, factory),
		logger:   log.Default(),
	}
}

// NewAutocert builds a Server whose TLS listeners are certified
// on-demand via Let's Encrypt, per autocertCfg.
func NewAutocert(r Router, cfg Config, autocertCfg tlsstream.AutocertConfig) *Server {
	return New(r, cfg, tlsstream.NewAutocertTLSConfig(autocertCfg))
}

// Warmup pre-allocates n idle per-connection sessions, absorbing a
// burst of incoming connections without per-accept allocation cost.
func (s *Server) Warmup(n int) { s.acceptor.Warmup(n) }

// Healthy reports whether every configured listener is currently
// bound and accepting.
func (s *Server) Healthy() bool { return s.acceptor.Healthy() }

// InFlight returns the number of connections currently being served.
func (s *Server) InFlight() int64 { return s.acceptor.InFlight() }

// Accepted returns the lifetime count of accepted connections.
func (s *Server) Accepted() int64 { return s.acceptor.Accepted() }

// Run blocks serving every configured listener until ctx is canceled
// or a fatal accept error occurs, then waits for all listeners to
// close before returning.
func (s *Server) Run(ctx context.Context) error {
	return s.acceptor.Run(ctx)
}

// RunUntilSignal is Run, but also cancels its own context on SIGINT
// or SIGTERM, giving a standalone binary graceful shutdown with no
// extra wiring at the call site.
func (s *Server) RunUntilSignal(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}
