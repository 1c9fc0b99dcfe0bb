package http1

import (
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/httpcore/internal/httphead"
)

// Response is the server-side response data model: a status, a
// header multi-map, and a body held in a single in-memory buffer.
type Response struct {
	Version Version
	Status  int
	Header  httphead.Header

	// Body is the full body. For a chunked response the session
	// writes it as one chunk followed by the terminating zero-size
	// chunk.
	Body []byte

	Chunked bool

	// Hijack, if set by a handler, is invoked with the raw connection
	// in place of writing this response: the session serializes
	// nothing for it, so the callback writes any reply itself (e.g. a
	// 101) — an escape hatch for protocol upgrades, primarily. Setting it ends
	// the session's own request/response loop for this connection;
	// the session engine never reads or writes the connection again
	// afterward.
	Hijack func(conn HijackedConn)
}

// HijackedConn is the minimal surface a Hijack callback needs: the
// raw bytes in and out, with no framing or keep-alive logic layered
// on top.
type HijackedConn interface {
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)
	Close() error
}

// Reset clears a Response for reuse from a pool.
func (r *Response) Reset() {
	r.Version = Version{}
	r.Status = 0
	r.Header.Reset()
	r.Body = r.Body[:0]
	r.Chunked = false
	r.Hijack = nil
}

// Serializer is a pull-based response writer. A caller assembles a
// Response (or streams chunks), then repeatedly
// calls Pull to drain wire bytes in segments no larger than the
// caller's own write-buffer size — this gives the session engine's
// write side the same backpressure-friendly shape as the parser's
// Feed side.
//
// Internally it composes the whole wire representation into a
// pooled byte buffer up front; Pull only slices that buffer, so a
// single Response never needs more than one allocation-sized buffer
// regardless of how many small Pull calls the caller makes.
type Serializer struct {
	buf    *bytebufferpool.ByteBuffer
	offset int
	closed bool
}

// NewSerializer returns a ready-to-use Serializer.
func NewSerializer() *Serializer {
	return &Serializer{buf: bytebufferpool.Get()}
}

// Reset releases the internal buffer back to the shared pool and
// prepares the serializer for the next response.
func (s *Serializer) Reset() {
	if s.buf != nil {
		bytebufferpool.Put(s.buf)
	}
	s.buf = bytebufferpool.Get()
	s.offset = 0
	s.closed = false
}

// Release returns the internal buffer to the shared pool. Call this
// when the Serializer itself is being discarded rather than reused.
func (s *Serializer) Release() {
	if s.buf != nil {
		bytebufferpool.Put(s.buf)
		s.buf = nil
	}
}

// WriteResponse composes a full, non-streaming response (status line,
// headers, and an in-memory body) into the pull buffer. A
// Content-Length is added when the body is known and not already
// declared, and 204/304/1xx responses are forced bodyless regardless
// of resp.Body.
func (s *Serializer) WriteResponse(resp *Response) {
	s.writeStatusLine(resp.Version, resp.Status)

	noBody := ForbidsBody(resp.Status)
	body := resp.Body
	if noBody {
		body = nil
		resp.Header.Erase(httphead.NameContentLength)
		resp.Header.Erase(httphead.NameTransferEncoding)
	} else if !resp.Chunked && !resp.Header.Contains(httphead.NameContentLength) {
		resp.Header.Add(httphead.NameContentLength, strconv.Itoa(len(body)))
	}

	resp.Header.WriteTo(s.buf)
	s.buf.WriteString("\r\n")

	if !noBody && len(body) > 0 {
		s.buf.Write(body)
	}
}

// WriteStatusAndHeaders composes only the status line and headers,
// for a caller that will stream the body via WriteChunk afterward.
func (s *Serializer) WriteStatusAndHeaders(resp *Response) {
	s.writeStatusLine(resp.Version, resp.Status)
	if resp.Chunked && !resp.Header.Contains(httphead.NameTransferEncoding) {
		resp.Header.Add(httphead.NameTransferEncoding, "chunked")
	}
	resp.Header.WriteTo(s.buf)
	s.buf.WriteString("\r\n")
}

func (s *Serializer) writeStatusLine(v Version, status int) {
	if v.Major == 0 {
		v = Version{1, 1}
	}
	s.buf.WriteString(v.String())
	s.buf.WriteString(" ")
	s.buf.WriteString(strconv.Itoa(status))
	s.buf.WriteString(" ")
	s.buf.WriteString(ReasonPhrase(status))
	s.buf.WriteString("\r\n")
}

// WriteChunk appends one chunked-transfer-encoding chunk. Call this
// any number of times after WriteStatusAndHeaders(resp) with
// resp.Chunked set. An empty chunk is a no-op (use WriteFinalChunk to
// terminate the stream).
func (s *Serializer) WriteChunk(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	s.buf.WriteString(strconv.FormatInt(int64(len(chunk)), 16))
	s.buf.WriteString("\r\n")
	s.buf.Write(chunk)
	s.buf.WriteString("\r\n")
}

// WriteFinalChunk appends the terminating "0\r\n\r\n" marker. The
// response is complete once this segment has been fully pulled.
func (s *Serializer) WriteFinalChunk() {
	s.buf.WriteString("0\r\n\r\n")
	s.closed = true
}

// Pull returns the next up-to-maxWriteSize bytes of composed wire
// output and whether any bytes were available. The slice is only
// valid until the next call to Pull, Reset, or Release — copy it if
// the caller must retain it past that point.
func (s *Serializer) Pull(maxWriteSize int) (data []byte, ok bool) {
	avail := s.buf.B[s.offset:]
	if len(avail) == 0 {
		return nil, false
	}
	if maxWriteSize <= 0 || maxWriteSize > len(avail) {
		maxWriteSize = len(avail)
	}
	data = avail[:maxWriteSize]
	s.offset += maxWriteSize
	return data, true
}

// Pending reports whether Pull has more bytes to deliver.
func (s *Serializer) Pending() bool {
	return s.offset < s.buf.Len()
}
