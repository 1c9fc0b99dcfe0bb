package http1

import (
	"bytes"
	"testing"
)

func pullAll(s *Serializer, maxWriteSize int) []byte {
	var out []byte
	for {
		data, ok := s.Pull(maxWriteSize)
		if !ok {
			return out
		}
		out = append(out, data...)
	}
}

func TestSerializerWriteResponseAddsContentLength(t *testing.T) {
	resp := &Response{Status: 200, Body: []byte("hello")}
	s := NewSerializer()
	defer s.Release()

	s.WriteResponse(resp)
	out := pullAll(s, 4096)

	if !bytes.Contains(out, []byte("HTTP/1.1 200 OK\r\n")) {
		t.Errorf("missing status line, got %q", out)
	}
	if !bytes.Contains(out, []byte("content-length: 5\r\n")) {
		t.Errorf("expected content-length: 5, got %q", out)
	}
	if !bytes.HasSuffix(out, []byte("hello")) {
		t.Errorf("expected body suffix, got %q", out)
	}
}

func TestSerializerForcesNoBodyFor204(t *testing.T) {
	resp := &Response{Status: 204, Body: []byte("should be dropped")}
	s := NewSerializer()
	defer s.Release()

	s.WriteResponse(resp)
	out := pullAll(s, 4096)

	if bytes.Contains(out, []byte("should be dropped")) {
		t.Errorf("204 must not carry a body, got %q", out)
	}
	if bytes.Contains(out, []byte("content-length")) {
		t.Errorf("204 must not carry content-length, got %q", out)
	}
}

func TestSerializerChunkedStream(t *testing.T) {
	resp := &Response{Status: 200, Chunked: true}
	s := NewSerializer()
	defer s.Release()

	s.WriteStatusAndHeaders(resp)
	s.WriteChunk([]byte("Wiki"))
	s.WriteChunk([]byte("pedia"))
	s.WriteFinalChunk()

	out := pullAll(s, 4096)
	want := "4\r\nWiki\r\n5\r\npedia\r\n0\r\n\r\n"
	if !bytes.HasSuffix(out, []byte(want)) {
		t.Errorf("expected chunked body suffix %q, got %q", want, out)
	}
	if !bytes.Contains(out, []byte("transfer-encoding: chunked\r\n")) {
		t.Errorf("expected transfer-encoding: chunked header, got %q", out)
	}
}

func TestSerializerPullRespectsMaxWriteSize(t *testing.T) {
	resp := &Response{Status: 200, Body: bytes.Repeat([]byte("x"), 100)}
	s := NewSerializer()
	defer s.Release()
	s.WriteResponse(resp)

	data, ok := s.Pull(10)
	if !ok || len(data) != 10 {
		t.Fatalf("expected a 10-byte segment, got %d bytes, ok=%v", len(data), ok)
	}
	if !s.Pending() {
		t.Error("expected more pending output after a partial pull")
	}
}
