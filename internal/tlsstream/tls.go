// Package tlsstream implements a TLS-terminating stream.Handler,
// alongside plaintext (internal/stream.Plain), plus the automatic
// certificate management a production listener needs.
package tlsstream

import (
	"crypto/tls"
	"net"

	"github.com/yourusername/httpcore/internal/stream"
)

// Handler wraps a *tls.Conn as a stream.Handler. Read/Write delegate
// straight to the TLS record layer; Shutdown sends the TLS
// close_notify alert before closing the underlying socket.
type Handler struct {
	conn *tls.Conn
}

// New wraps an already-handshaken TLS connection.
func New(conn *tls.Conn) *Handler {
	return &Handler{conn: conn}
}

func (h *Handler) Read(buf []byte) (int, error)   { return h.conn.Read(buf) }
func (h *Handler) Write(data []byte) (int, error) { return h.conn.Write(data) }

// Shutdown sends close_notify (best-effort; an error here just means
// the peer already hung up) and closes the connection.
func (h *Handler) Shutdown() error {
	_ = h.conn.CloseWrite()
	return h.conn.Close()
}

// Conn exposes the underlying *tls.Conn, e.g. for ConnectionState().
func (h *Handler) Conn() *tls.Conn { return h.conn }

// RawConn implements stream.RawConnProvider.
func (h *Handler) RawConn() net.Conn { return h.conn }

// Factory returns a function of the shape accept.TLSFactory expects:
// given a freshly accepted plaintext net.Conn, perform the TLS server
// handshake under cfg and hand back a stream.Handler. Kept as a plain
// function rather than a named type so this package has no import
// dependency on internal/accept.
func Factory(cfg *tls.Config) func(net.Conn) (stream.Handler, error) {
	return func(conn net.Conn) (stream.Handler, error) {
		tc := tls.Server(conn, cfg)
		if err := tc.Handshake(); err != nil {
			tc.Close()
			return nil, err
		}
		return New(tc), nil
	}
}
