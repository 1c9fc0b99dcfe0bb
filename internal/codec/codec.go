// Package codec implements the response body codec registry: gzip,
// deflate and brotli compressors selected by Accept-Encoding
// negotiation in the RESPONSE middleware phase.
package codec

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Codec compresses and decompresses a response/request body under one
// content-coding name.
type Codec interface {
	// Name is the content-coding token as it appears in
	// Accept-Encoding / Content-Encoding (e.g. "gzip").
	Name() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

type gzipCodec struct{ level int }

func (gzipCodec) Name() string { return "gzip" }

func (c gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

type deflateCodec struct{ level int }

func (deflateCodec) Name() string { return "deflate" }

func (c deflateCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, c.level)
}

func (deflateCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

type brotliCodec struct{ level int }

func (brotliCodec) Name() string { return "br" }

func (c brotliCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriterLevel(w, c.level), nil
}

func (brotliCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(r)), nil
}
