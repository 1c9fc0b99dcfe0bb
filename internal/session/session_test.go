package session

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
	"github.com/yourusername/httpcore/internal/stream"
)

func newTestSession(t *testing.T, r router.IRouter) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close() })

	cfg := DefaultConfig()
	cfg.ReadBufferSize = 4096
	s := New(r, cfg)

	go s.Run(stream.NewPlain(server))
	return s, client
}

func readAll(t *testing.T, conn net.Conn, timeout time.Duration) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	var buf bytes.Buffer
	tmp := make([]byte, 4096)
	for {
		n, err := conn.Read(tmp)
		buf.Write(tmp[:n])
		if err != nil {
			break
		}
	}
	return buf.Bytes()
}

func TestSessionMinimalGET(t *testing.T) {
	r := router.New()
	r.Add("GET", "/", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		resp.Body = append(resp.Body[:0], "hi"...)
		return nil
	})

	_, client := newTestSession(t, r)

	client.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
	out := readAll(t, client, time.Second)

	if !bytes.HasPrefix(out, []byte("HTTP/1.1 200 OK\r\n")) {
		t.Fatalf("unexpected status line: %q", out)
	}
	if !bytes.Contains(out, []byte("content-length: 2\r\n")) {
		t.Errorf("expected content-length: 2, got %q", out)
	}
	if !bytes.HasSuffix(out, []byte("hi")) {
		t.Errorf("expected body %q, got %q", "hi", out)
	}
}

func TestSessionChunkedEcho(t *testing.T) {
	r := router.New()
	r.Add("POST", "/echo", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		resp.Body = append(resp.Body[:0], req.Body...)
		return nil
	})

	_, client := newTestSession(t, r)

	req := "POST /echo HTTP/1.1\r\nHost: x\r\nTransfer-Encoding: chunked\r\nConnection: close\r\n\r\n" +
		"5\r\nHello\r\n0\r\n\r\n"
	client.Write([]byte(req))
	out := readAll(t, client, time.Second)

	if !bytes.Contains(out, []byte("content-length: 5\r\n")) {
		t.Errorf("expected content-length: 5, got %q", out)
	}
	if !bytes.HasSuffix(out, []byte("Hello")) {
		t.Errorf("expected echoed body, got %q", out)
	}
}

func TestSessionPayloadTooLarge(t *testing.T) {
	r := router.New()
	rt, _ := r.Add("POST", "/u", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		return nil
	})
	_ = rt

	client, server := net.Pipe()
	defer client.Close()

	cfg := DefaultConfig()
	cfg.ReadBufferSize = 4096
	cfg.Limits.MaxBodySize = 2
	s := New(r, cfg)
	go s.Run(stream.NewPlain(server))

	client.Write([]byte("POST /u HTTP/1.1\r\nHost: x\r\nContent-Length: 5\r\n\r\nHello"))
	out := readAll(t, client, time.Second)

	if !bytes.HasPrefix(out, []byte("HTTP/1.1 413")) {
		t.Fatalf("expected 413, got %q", out)
	}
}

func TestSessionConflictingFraming(t *testing.T) {
	r := router.New()
	r.Add("POST", "/u", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		return nil
	})

	_, client := newTestSession(t, r)

	client.Write([]byte("POST /u HTTP/1.1\r\nHost: x\r\nTransfer-Encoding: chunked\r\nContent-Length: 5\r\n\r\n"))
	out := readAll(t, client, time.Second)

	if !bytes.HasPrefix(out, []byte("HTTP/1.1 400")) {
		t.Fatalf("expected 400, got %q", out)
	}
}

func TestSessionPipelinedKeepAlive(t *testing.T) {
	r := router.New()
	r.Add("GET", "/", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		resp.Body = append(resp.Body[:0], "ok"...)
		return nil
	})

	_, client := newTestSession(t, r)

	oneReq := "GET / HTTP/1.1\r\nHost: x\r\nConnection: keep-alive\r\n\r\n"
	client.Write([]byte(oneReq + oneReq))

	client.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 4096)
	n, err := io.ReadFull(client, buf[:1])
	if err != nil || n != 1 {
		t.Fatalf("expected at least one byte from first response: %v", err)
	}

	// Collect remaining bytes without requiring EOF, since the
	// connection stays open after keep-alive.
	got := append([]byte{}, buf[:1]...)
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		client.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, err := client.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}

	count := bytes.Count(got, []byte("HTTP/1.1 200 OK"))
	if count != 2 {
		t.Fatalf("expected 2 responses, got %d in %q", count, got)
	}
}
