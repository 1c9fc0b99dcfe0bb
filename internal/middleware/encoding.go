package middleware

import (
	"bytes"

	"github.com/yourusername/httpcore/internal/codec"
	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
)

// EncodingConfig configures the response compression middleware.
type EncodingConfig struct {
	Registry *codec.Registry
	// MinSize is the smallest body, in bytes, worth compressing;
	// below it the per-request codec overhead isn't worth paying.
	MinSize int
}

// DefaultEncodingConfig returns the default registry (gzip, brotli,
// deflate) with a 256 byte compression floor.
func DefaultEncodingConfig() EncodingConfig {
	return EncodingConfig{Registry: codec.DefaultRegistry(), MinSize: 256}
}

// Encoding returns a RESPONSE-phase middleware that negotiates
// Accept-Encoding against config.Registry and compresses resp.Body in
// place. It only applies to a non-chunked response; a response with
// Chunked set is passed through with its body uncompressed.
func Encoding(config EncodingConfig) router.MiddlewareFunc {
	return func(req *http1.Request, resp *http1.Response) bool {
		if resp.Chunked || len(resp.Body) < config.MinSize {
			return true
		}
		if resp.Header.Contains("content-encoding") {
			return true
		}
		accept, _ := req.Header.At("accept-encoding")
		c, ok := codec.Negotiate(accept, config.Registry)
		if !ok {
			return true
		}

		var buf bytes.Buffer
		w, err := c.NewWriter(&buf)
		if err != nil {
			return true
		}
		if _, err := w.Write(resp.Body); err != nil {
			return true
		}
		if err := w.Close(); err != nil {
			return true
		}

		resp.Body = append(resp.Body[:0], buf.Bytes()...)
		resp.Header.Erase("content-length")
		resp.Header.Add("Content-Encoding", c.Name())
		resp.Header.Add("Vary", "Accept-Encoding")
		return true
	}
}
