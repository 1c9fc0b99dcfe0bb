package accept

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
	"github.com/yourusername/httpcore/internal/session"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestAcceptorServesOneConnection(t *testing.T) {
	r := router.New()
	r.Add("GET", "/", func(req *http1.Request, resp *http1.Response) error {
		resp.Status = 200
		resp.Body = append(resp.Body[:0], "ok"...)
		return nil
	})

	cfg := session.DefaultConfig()
	port := freePort(t)
	cfg.Listeners = []session.Listener{
		{IPAddr: "127.0.0.1", Port: port, Backlog: 16},
	}

	a := New(r, cfg, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

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
		t.Fatalf("failed to dial acceptor: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\nConnection: close\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if a.Accepted() < 1 {
		t.Errorf("expected at least one accepted connection, got %d", a.Accepted())
	}
	if !a.Healthy() {
		t.Errorf("expected acceptor to be healthy while running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error after cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if a.Healthy() {
		t.Errorf("expected acceptor to report unhealthy after shutdown")
	}
}
