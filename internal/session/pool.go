package session

import (
	"sync"

	"github.com/yourusername/httpcore/internal/router"
)

// Pool hands out Sessions bound to r and cfg, reusing them across
// connections instead of allocating a parser/request/response/
// serializer quartet per accept. This extends the same idempotent
// reset already used within one connection's keep-alive loop across
// connections too.
type Pool struct {
	router router.IRouter
	cfg    Config
	pool   sync.Pool
}

// NewPool returns a Pool bound to r and cfg.
func NewPool(r router.IRouter, cfg Config) *Pool {
	p := &Pool{router: r, cfg: cfg}
	p.pool.New = func() any { return New(r, cfg) }
	return p
}

// Warmup pre-allocates n idle Sessions so the pool absorbs a burst of
// incoming connections without each one paying allocation cost on the
// accept path.
func (p *Pool) Warmup(n int) {
	sessions := make([]*Session, 0, n)
	for i := 0; i < n; i++ {
		sessions = append(sessions, p.pool.Get().(*Session))
	}
	for _, s := range sessions {
		p.pool.Put(s)
	}
}

// Acquire returns a Session ready to Run a new connection.
func (p *Pool) Acquire() *Session {
	return p.pool.Get().(*Session)
}

// Release returns s to the pool once its connection's Run has
// returned.
func (p *Pool) Release(s *Session) {
	p.pool.Put(s)
}
