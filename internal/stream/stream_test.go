package stream

import (
	"net"
	"testing"
)

func TestPlainReadWrite(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	h := NewPlain(server)
	defer h.Shutdown()

	go func() {
		client.Write([]byte("hello"))
	}()

	buf := make([]byte, 16)
	n, err := h.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Errorf("expected %q, got %q", "hello", buf[:n])
	}
}

func TestPlainShutdownClosesConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	h := NewPlain(server)
	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if _, err := h.Write([]byte("x")); err == nil {
		t.Errorf("expected write on closed conn to error")
	}
}
