package wsupgrade

import (
	"bufio"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/yourusername/httpcore/internal/http1"
)

// hijackShim is the minimal http.ResponseWriter + http.Hijacker pair
// gorilla/websocket's Upgrader.Upgrade needs to take over a
// connection. Upgrade writes its own 101 response straight to the
// hijacked bufio.Writer on success, so Header/WriteHeader/Write are
// only ever exercised on gorilla's error path (a bad handshake it
// detects independently of Negotiate, which shouldn't happen since
// Negotiate already validated the request, but Upgrade re-checks).
// That error path writes a plain-text body through Write without a
// status line, since nothing here re-synthesizes one; it's unreached
// in practice but left honest rather than papered over.
type hijackShim struct {
	conn   net.Conn
	header http.Header
	status int
}

func (s *hijackShim) Header() http.Header { return s.header }

func (s *hijackShim) Write(b []byte) (int, error) {
	return s.conn.Write(b)
}

func (s *hijackShim) WriteHeader(status int) { s.status = status }

func (s *hijackShim) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	rw := bufio.NewReadWriter(bufio.NewReader(s.conn), bufio.NewWriter(s.conn))
	return s.conn, rw, nil
}

// ConnHandler is the caller-supplied callback that takes over a
// connection after a successful websocket upgrade.
type ConnHandler func(*websocket.Conn)

// ServeConn completes a websocket upgrade already validated by
// Negotiate: it rebuilds just enough of a net/http request around req
// to drive a gorilla/websocket Upgrader, hands the resulting *Conn to
// handle, and blocks until handle returns.
//
// Intended as the body of an http1.Response.Hijack callback:
//
//	hs, err := wsupgrade.Negotiate(req, resp)
//	if err != nil { ... }
//	resp.Hijack = func(conn http1.HijackedConn) {
//	    wsupgrade.ServeConn(conn.(net.Conn), req, hs, upgrader, chatHandler)
//	}
func ServeConn(conn net.Conn, req *http1.Request, hs Handshake, upgrader *websocket.Upgrader, handle ConnHandler) error {
	if handle == nil {
		return errors.New("wsupgrade: nil ConnHandler")
	}

	httpReq, err := toHTTPRequest(req)
	if err != nil {
		return err
	}

	shim := &hijackShim{conn: conn, header: make(http.Header)}
	var responseHeader http.Header
	if hs.Protocol != "" {
		responseHeader = http.Header{"Sec-WebSocket-Protocol": []string{hs.Protocol}}
	}

	wsConn, err := upgrader.Upgrade(shim, httpReq, responseHeader)
	if err != nil {
		return err
	}
	handle(wsConn)
	return nil
}

// toHTTPRequest builds the *http.Request gorilla/websocket needs out
// of the fields it actually inspects: method, URL path, and headers
// (Connection/Upgrade/Sec-WebSocket-*). It never touches the request
// body, so none is wired up.
func toHTTPRequest(req *http1.Request) (*http.Request, error) {
	path := "/"
	if req.URI != nil {
		path = req.URI.Path
	}
	httpReq, err := http.NewRequest(req.Method, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.VisitAll(func(name, value string) bool {
		httpReq.Header.Add(name, value)
		return true
	})
	return httpReq, nil
}
