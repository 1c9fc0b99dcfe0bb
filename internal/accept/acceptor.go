// Package accept implements the connection acceptor: one goroutine
// per configured listener, each owning a bound socket, spawning a
// session per accepted connection against the shared router.
package accept

import (
	"context"
	"errors"
	"log"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/httpcore/internal/router"
	"github.com/yourusername/httpcore/internal/session"
	"github.com/yourusername/httpcore/internal/socket"
	"github.com/yourusername/httpcore/internal/stream"
)

// TLSFactory wraps a plain net.Conn into a TLS-terminating
// stream.Handler. Supplied by internal/tlsstream for a Listener with
// SSL set.
type TLSFactory func(conn net.Conn) (stream.Handler, error)

// Acceptor owns zero or more listening sockets and spawns a Session
// per accepted connection, all bound to the same router — a single
// process may run multiple acceptors, one per listener.
type Acceptor struct {
	router router.IRouter
	cfg    session.Config
	pool   *session.Pool
	tls    TLSFactory
	logger *log.Logger

	inFlight atomic.Int64
	accepted atomic.Int64

	mu        sync.Mutex
	listeners []net.Listener
	closed    bool
}

// New builds an Acceptor bound to r and cfg. If any Listener in
// cfg.Listeners has SSL set, tls must be non-nil.
func New(r router.IRouter, cfg session.Config, tls TLSFactory) *Acceptor {
	return &Acceptor{
		router: r,
		cfg:    cfg,
		pool:   session.NewPool(r, cfg),
		tls:    tls,
		logger: log.Default(),
	}
}

// Warmup pre-allocates n idle sessions in the underlying pool.
func (a *Acceptor) Warmup(n int) { a.pool.Warmup(n) }

// Run binds every configured listener and accepts connections until
// ctx is cancelled or any listener fails irrecoverably, at which point
// every other listener is stopped too (spec's multi-loop model:
// independent acceptor goroutines, first fatal error wins).
func (a *Acceptor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, l := range a.cfg.Listeners {
		l := l
		ln, err := a.bind(gctx, l)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.listeners = append(a.listeners, ln)
		a.mu.Unlock()

		g.Go(func() error {
			return a.acceptLoop(gctx, ln, l)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.closeListeners()
	})

	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (a *Acceptor) bind(ctx context.Context, l session.Listener) (net.Listener, error) {
	sockCfg := socket.DefaultConfig()
	lc := socket.ListenConfig(sockCfg)
	addr := net.JoinHostPort(l.IPAddr, strconv.Itoa(l.Port))
	return lc.Listen(ctx, l.Network(), addr)
}

func (a *Acceptor) acceptLoop(ctx context.Context, ln net.Listener, lcfg session.Listener) error {
	a.logger.Printf("accept: listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Printf("accept: error on %s: %v", ln.Addr(), err)
			continue
		}

		a.accepted.Add(1)
		a.inFlight.Add(1)
		go a.serve(conn, lcfg)
	}
}

func (a *Acceptor) serve(conn net.Conn, lcfg session.Listener) {
	defer a.inFlight.Add(-1)

	if err := socket.Apply(conn, socket.DefaultConfig()); err != nil {
		a.logger.Printf("accept: socket tuning failed: %v", err)
	}

	if d := lcfg.Timeout(); d > 0 {
		conn.SetDeadline(time.Now().Add(d))
	}

	var h stream.Handler
	if lcfg.SSL {
		if a.tls == nil {
			conn.Close()
			return
		}
		var err error
		h, err = a.tls(conn)
		if err != nil {
			a.logger.Printf("accept: tls handshake failed: %v", err)
			conn.Close()
			return
		}
	} else {
		h = stream.NewPlain(conn)
	}

	s := a.pool.Acquire()
	defer a.pool.Release(s)
	s.Run(h)
}

func (a *Acceptor) closeListeners() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	var firstErr error
	for _, ln := range a.listeners {
		if err := ln.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Healthy reports whether the acceptor is currently accepting
// connections (supplemented health/readiness accounting).
func (a *Acceptor) Healthy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.closed
}

// InFlight returns the number of connections currently being served.
func (a *Acceptor) InFlight() int64 { return a.inFlight.Load() }

// Accepted returns the total number of connections accepted since
// start.
func (a *Acceptor) Accepted() int64 { return a.accepted.Load() }
