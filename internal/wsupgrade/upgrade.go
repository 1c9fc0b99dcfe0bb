// Package wsupgrade implements the RFC 6455 handshake validation for
// the session engine's hijack escape hatch (http1.Response.Hijack): a
// route handler calls Negotiate to validate a well-formed upgrade
// request and mark the response 101, then sets resp.Hijack to a
// callback that takes over the raw connection. The session writes
// nothing for a hijacked response, so the callback emits the 101
// itself (ServeConn does).
//
// Frame-level websocket handling itself isn't implemented here — per
// its own README, gorilla/websocket's public entry points
// (Upgrader.Upgrade, Dialer.Dial) are built around net/http, which
// the rest of this module deliberately doesn't depend on. ServeConn
// bridges the two: it builds just enough of a net/http request and a
// Hijacker-only ResponseWriter around the raw connection to call
// Upgrader.Upgrade, which writes the 101, then passes the resulting
// *websocket.Conn to the caller's handler.
package wsupgrade

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"

	"github.com/yourusername/httpcore/internal/http1"
)

const acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var (
	// ErrNotUpgrade means the request doesn't ask for a websocket
	// upgrade at all (wrong method, or missing Upgrade: websocket).
	ErrNotUpgrade = errors.New("wsupgrade: not a websocket upgrade request")
	// ErrBadVersion means Sec-WebSocket-Version isn't 13.
	ErrBadVersion = errors.New("wsupgrade: unsupported Sec-WebSocket-Version")
	// ErrBadKey means Sec-WebSocket-Key is missing.
	ErrBadKey = errors.New("wsupgrade: missing Sec-WebSocket-Key")
)

// IsUpgradeRequest reports whether req asks to switch to the
// websocket protocol, without validating the rest of the handshake.
func IsUpgradeRequest(req *http1.Request) bool {
	if req.Method != "GET" {
		return false
	}
	return req.Header.ContainsValue("connection", "upgrade", true) &&
		req.Header.ContainsValue("upgrade", "websocket", true)
}

// Handshake holds what Negotiate extracted from a valid upgrade
// request, ahead of any frame handling.
type Handshake struct {
	Key         string
	Protocol    string
	AcceptValue string
}

// Negotiate validates req as a websocket upgrade handshake and, on
// success, marks resp as a 101 Switching Protocols for anything that
// inspects resp.Status afterward (access logging, metrics). It does
// not write the 101's headers onto resp and does not set resp.Hijack:
// the actual 101 bytes are emitted by whatever constructs the
// post-upgrade connection wrapper (see ServeConn), since that's the
// only place that also knows how to speak the chosen frame protocol;
// the caller wires resp.Hijack once it has that ready.
func Negotiate(req *http1.Request, resp *http1.Response) (Handshake, error) {
	if !IsUpgradeRequest(req) {
		return Handshake{}, ErrNotUpgrade
	}
	if v, _ := req.Header.At("sec-websocket-version"); v != "13" {
		return Handshake{}, ErrBadVersion
	}
	key, ok := req.Header.At("sec-websocket-key")
	if !ok || key == "" {
		return Handshake{}, ErrBadKey
	}

	hs := Handshake{
		Key:         key,
		AcceptValue: AcceptKey(key),
	}
	if proto, ok := req.Header.At("sec-websocket-protocol"); ok {
		hs.Protocol = firstToken(proto)
	}

	resp.Status = 101
	return hs, nil
}

// AcceptKey computes the Sec-WebSocket-Accept value for a client key
// per RFC 6455 §1.3.
func AcceptKey(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte(acceptGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// firstToken returns the first comma-separated, trimmed token of s.
func firstToken(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			return trimSpace(s[:i])
		}
	}
	return trimSpace(s)
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isOWS(s[start]) {
		start++
	}
	for end > start && isOWS(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isOWS(b byte) bool { return b == ' ' || b == '\t' }
