// Package httpclient mirrors the server-direction parser and
// serializer (C, D) for the client direction: it serializes requests,
// parses responses byte-incrementally off the same Milestone scheme,
// and splits an absolute URL into the pieces a connection and a
// request line need.
package httpclient

import (
	"errors"
	"strconv"
	"strings"

	"github.com/yourusername/httpcore/internal/httpuri"
)

// ErrUnsupportedScheme is returned for any scheme other than "http" or
// "https".
var ErrUnsupportedScheme = errors.New("httpclient: unsupported URL scheme")

// ErrMissingHost is returned when a URL has no host component.
var ErrMissingHost = errors.New("httpclient: missing host")

// URL is a split absolute URL: the pieces a dialer needs (scheme,
// host, port) plus the origin-form request-target the request line
// and router both already understand.
type URL struct {
	Scheme string
	Host   string
	Port   int
	// Target is the origin-form path+query, reusing the same model
	// the server-side parser builds, so a request built here and a
	// request matched by the router use identical path/query
	// semantics.
	Target *httpuri.URI
}

// Addr returns "host:port" as net.Dial expects it.
func (u *URL) Addr() string {
	return u.Host + ":" + strconv.Itoa(u.Port)
}

// TLS reports whether the URL requires a TLS connection.
func (u *URL) TLS() bool { return u.Scheme == "https" }

// SplitURL parses an absolute "scheme://host[:port][/path[?query]]"
// URL into its dial address and its origin-form request-target. Only
// "http" and "https" are accepted; anything else is rejected rather
// than silently misrouted.
func SplitURL(raw string) (*URL, error) {
	scheme, rest, ok := cutScheme(raw)
	if !ok {
		return nil, ErrUnsupportedScheme
	}
	if scheme != "http" && scheme != "https" {
		return nil, ErrUnsupportedScheme
	}

	hostPort, path := splitAuthority(rest)
	host, port, err := splitHostPort(hostPort, scheme == "https")
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = "/"
	}
	target, err := httpuri.ParseOrigin(path)
	if err != nil {
		return nil, err
	}

	return &URL{Scheme: scheme, Host: host, Port: port, Target: target}, nil
}

func cutScheme(raw string) (scheme, rest string, ok bool) {
	idx := strings.Index(raw, "://")
	if idx < 0 {
		return "", "", false
	}
	return strings.ToLower(raw[:idx]), raw[idx+3:], true
}

func splitAuthority(rest string) (hostPort, path string) {
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return rest, "/"
	}
	return rest[:idx], rest[idx:]
}

func splitHostPort(hostPort string, tls bool) (host string, port int, err error) {
	if hostPort == "" {
		return "", 0, ErrMissingHost
	}
	if idx := strings.LastIndexByte(hostPort, ':'); idx >= 0 && strings.IndexByte(hostPort, ']') < idx {
		p, perr := strconv.Atoi(hostPort[idx+1:])
		if perr != nil {
			return "", 0, ErrMissingHost
		}
		return hostPort[:idx], p, nil
	}
	if tls {
		return hostPort, 443, nil
	}
	return hostPort, 80, nil
}
