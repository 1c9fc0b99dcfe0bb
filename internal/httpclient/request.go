package httpclient

import (
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/httphead"
)

// Request is the client-side counterpart of http1.Request: a method,
// an absolute URL (split into dial address and origin-form target),
// headers and an in-memory body.
type Request struct {
	Method  string
	URL     *URL
	Version http1.Version
	Header  httphead.Header
	Body    []byte
}

// NewRequest builds a Request against an absolute URL, defaulting to
// HTTP/1.1 and a Host header derived from the URL.
func NewRequest(method, rawURL string) (*Request, error) {
	u, err := SplitURL(rawURL)
	if err != nil {
		return nil, err
	}
	req := &Request{
		Method:  method,
		URL:     u,
		Version: http1.Version{Major: 1, Minor: 1},
	}
	req.Header.Add("Host", hostHeaderValue(u))
	return req, nil
}

func hostHeaderValue(u *URL) string {
	if (u.Scheme == "http" && u.Port == 80) || (u.Scheme == "https" && u.Port == 443) {
		return u.Host
	}
	return u.Host + ":" + strconv.Itoa(u.Port)
}

// RequestSerializer is the pull-based request writer, the mirror
// image of http1.Serializer on the client side: compose once, then
// drain via Pull in segments sized to the caller's write buffer.
type RequestSerializer struct {
	buf    *bytebufferpool.ByteBuffer
	offset int
}

// NewRequestSerializer returns a ready-to-use RequestSerializer.
func NewRequestSerializer() *RequestSerializer {
	return &RequestSerializer{buf: bytebufferpool.Get()}
}

// Reset releases the internal buffer back to the shared pool and
// prepares the serializer for the next request.
func (s *RequestSerializer) Reset() {
	if s.buf != nil {
		bytebufferpool.Put(s.buf)
	}
	s.buf = bytebufferpool.Get()
	s.offset = 0
}

// Release returns the internal buffer to the shared pool.
func (s *RequestSerializer) Release() {
	if s.buf != nil {
		bytebufferpool.Put(s.buf)
		s.buf = nil
	}
}

// WriteRequest composes the request line, headers and body into the
// pull buffer. A Content-Length is added when the body is non-empty
// and not already declared, mirroring the server serializer's
// framing rule in the opposite direction.
func (s *RequestSerializer) WriteRequest(req *Request) {
	v := req.Version
	if v.Major == 0 {
		v = http1.Version{Major: 1, Minor: 1}
	}

	s.buf.WriteString(req.Method)
	s.buf.WriteString(" ")
	s.buf.WriteString(req.URL.Target.Path)
	if req.URL.Target.RawQuery != "" {
		s.buf.WriteString("?")
		s.buf.WriteString(req.URL.Target.RawQuery)
	}
	s.buf.WriteString(" ")
	s.buf.WriteString(v.String())
	s.buf.WriteString("\r\n")

	if len(req.Body) > 0 && !req.Header.Contains(httphead.NameContentLength) {
		req.Header.Add(httphead.NameContentLength, strconv.Itoa(len(req.Body)))
	}
	req.Header.WriteTo(s.buf)
	s.buf.WriteString("\r\n")

	if len(req.Body) > 0 {
		s.buf.Write(req.Body)
	}
}

// Pull returns the next up-to-maxWriteSize bytes of composed wire
// output and whether any bytes were available.
func (s *RequestSerializer) Pull(maxWriteSize int) (data []byte, ok bool) {
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
