package middleware

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/httphead"
)

func TestEncodingCompressesLargeBody(t *testing.T) {
	cfg := DefaultEncodingConfig()
	cfg.MinSize = 4
	mw := Encoding(cfg)

	req := &http1.Request{}
	req.Header.Add("Accept-Encoding", "gzip")

	resp := &http1.Response{}
	resp.Body = bytes.Repeat([]byte("a"), 1024)

	if !mw(req, resp) {
		t.Fatal("expected middleware to continue the chain")
	}

	if v, _ := resp.Header.At("content-encoding"); v != "gzip" {
		t.Fatalf("expected Content-Encoding: gzip, got %q", v)
	}

	r, err := gzip.NewReader(bytes.NewReader(resp.Body))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(r); err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if out.String() != string(bytes.Repeat([]byte("a"), 1024)) {
		t.Errorf("decompressed body mismatch")
	}
}

func TestEncodingSkipsSmallBody(t *testing.T) {
	cfg := DefaultEncodingConfig()
	mw := Encoding(cfg)

	req := &http1.Request{}
	req.Header.Add("Accept-Encoding", "gzip")

	resp := &http1.Response{}
	resp.Body = []byte("hi")

	mw(req, resp)

	if resp.Header.Contains(httphead.NameContentLength) {
		t.Errorf("did not expect content-length to be touched")
	}
	if v, ok := resp.Header.At("content-encoding"); ok {
		t.Errorf("expected no Content-Encoding for small body, got %q", v)
	}
}

func TestEncodingSkipsNoAcceptEncoding(t *testing.T) {
	cfg := DefaultEncodingConfig()
	cfg.MinSize = 4
	mw := Encoding(cfg)

	req := &http1.Request{}
	resp := &http1.Response{}
	resp.Body = bytes.Repeat([]byte("b"), 1024)
	original := append([]byte(nil), resp.Body...)

	mw(req, resp)

	if !bytes.Equal(resp.Body, original) {
		t.Errorf("expected body unchanged without Accept-Encoding")
	}
}
