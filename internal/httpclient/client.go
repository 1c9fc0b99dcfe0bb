package httpclient

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/httperr"
)

// ErrResponseTooLarge is returned when a FAILED parse was caused by a
// body or header section over the configured limits.
var ErrResponseTooLarge = errors.New("httpclient: response exceeds configured limits")

// Client performs a single request/response exchange per Do call over
// a short-lived net.Conn — the mirror image of Session, stripped down
// to one round trip rather than a keep-alive loop, since callers that
// want connection reuse hold the *net.Conn themselves across calls.
type Client struct {
	Limits     http1.Limits
	DialTimeout time.Duration
	ReadBufferSize int
}

// NewClient returns a Client with the default parser limits and a
// conventional 64 KiB read buffer.
func NewClient() *Client {
	return &Client{
		Limits:         http1.DefaultLimits(),
		DialTimeout:    10 * time.Second,
		ReadBufferSize: 64 * 1024,
	}
}

// Do dials req.URL's address, writes req, and parses the response.
// It is a convenience wrapper around DoConn for callers that do not
// need to manage the connection themselves.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	dialer := net.Dialer{Timeout: c.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", req.URL.Addr())
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return c.DoConn(conn, req)
}

// DoConn writes req over conn and parses exactly one response off it.
// The connection is left open; the caller decides whether to reuse it
// for a subsequent request or close it, mirroring the keep-alive
// decision the session engine makes on the server side.
func (c *Client) DoConn(conn net.Conn, req *Request) (*Response, error) {
	s := NewRequestSerializer()
	defer s.Release()
	s.WriteRequest(req)

	for {
		data, ok := s.Pull(c.bufSize())
		if !ok {
			break
		}
		if err := writeAll(conn, data); err != nil {
			return nil, err
		}
	}

	resp := &Response{}
	parser := NewParser(c.Limits)
	parser.Reset(resp, req.Method == "HEAD")

	buf := make([]byte, c.bufSize())
	for {
		n, err := conn.Read(buf)
		if n == 0 && err != nil {
			if parser.AwaitingClose() {
				parser.FinishAtClose()
				return resp, nil
			}
			return nil, err
		}
		data := buf[:n]
		for {
			consumed, milestone := parser.Feed(data)
			data = data[consumed:]
			switch milestone {
			case http1.MilestoneComplete:
				return resp, nil
			case http1.MilestoneFailed:
				e := parser.Err()
				if e == nil || e.Kind == httperr.KindHeadersTooLarge || e.Kind == httperr.KindBodyTooLarge {
					return nil, ErrResponseTooLarge
				}
				return nil, e
			}
			// Any other milestone may be followed by one that needs no
			// further bytes (COMPLETE after a body), so keep feeding
			// until the parser asks for more input.
			if milestone == http1.MilestoneNone {
				break
			}
		}
		if err != nil {
			if parser.AwaitingClose() {
				parser.FinishAtClose()
				return resp, nil
			}
			return nil, err
		}
	}
}

func (c *Client) bufSize() int {
	if c.ReadBufferSize <= 0 {
		return 64 * 1024
	}
	return c.ReadBufferSize
}

func writeAll(conn net.Conn, data []byte) error {
	for len(data) > 0 {
		n, err := conn.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
