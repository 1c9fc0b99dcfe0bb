package httpcore

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/session"
)

func freeServerPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServerEndToEnd(t *testing.T) {
	r := NewRouter()
	if _, err := r.Add("GET", "/ping", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		resp.Body = append(resp.Body, "pong"...)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	port := freeServerPort(t)
	cfg.Listeners = []session.Listener{{IPAddr: "127.0.0.1", Port: port, Backlog: 128, TimeoutMS: 5000}}

	srv := New(r, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	var conn net.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("GET /ping HTTP/1.1\r\nHost: localhost\r\nConnection: close\r\n\r\n"))
	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if !srv.Healthy() {
		t.Error("expected server to be healthy while running")
	}
	if srv.Accepted() < 1 {
		t.Error("expected at least one accepted connection")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
