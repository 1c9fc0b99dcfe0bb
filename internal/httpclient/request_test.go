package httpclient

import (
	"bytes"
	"strings"
	"testing"
)

func TestRequestSerializerBasic(t *testing.T) {
	req, err := NewRequest("GET", "http://example.com/a/b?x=1")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}

	s := NewRequestSerializer()
	defer s.Release()
	s.WriteRequest(req)

	var out bytes.Buffer
	for {
		data, ok := s.Pull(8)
		if !ok {
			break
		}
		out.Write(data)
	}

	got := out.String()
	if !strings.HasPrefix(got, "GET /a/b?x=1 HTTP/1.1\r\n") {
		t.Fatalf("unexpected request line: %q", got)
	}
	if !strings.Contains(got, "host: example.com\r\n") {
		t.Errorf("expected Host header, got %q", got)
	}
	if !strings.HasSuffix(got, "\r\n\r\n") {
		t.Errorf("expected request to end with blank line, got %q", got)
	}
}

func TestRequestSerializerWithBody(t *testing.T) {
	req, err := NewRequest("POST", "http://example.com/submit")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Body = []byte("payload")

	s := NewRequestSerializer()
	defer s.Release()
	s.WriteRequest(req)

	data, ok := s.Pull(0)
	if !ok {
		t.Fatal("expected data")
	}
	got := string(data)
	if !strings.Contains(got, "content-length: 7\r\n") {
		t.Errorf("expected content-length: 7, got %q", got)
	}
	if !strings.HasSuffix(got, "payload") {
		t.Errorf("expected body suffix, got %q", got)
	}
}

func TestRequestSerializerNonDefaultPort(t *testing.T) {
	req, err := NewRequest("GET", "http://example.com:8443/x")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if v, ok := req.Header.At("host"); !ok || v != "example.com:8443" {
		t.Errorf("expected Host example.com:8443, got %q ok=%v", v, ok)
	}
}
