package http1

import "testing"

func TestRequestResetYieldsZeroValueEquivalent(t *testing.T) {
	req := &Request{}
	feedAll(t, NewParserAndReset(req), []byte("POST /a HTTP/1.1\r\nHost: h\r\nContent-Length: 2\r\n\r\nhi"))

	req.Reset()

	if req.Method != "" || req.URI != nil || req.Version != (Version{}) {
		t.Errorf("expected zeroed request after Reset, got %+v", req)
	}
	if len(req.Body) != 0 {
		t.Errorf("expected empty body after Reset, got %q", req.Body)
	}
	if req.ContentLength() != -1 {
		t.Errorf("expected ContentLength -1 after Reset, got %d", req.ContentLength())
	}
}

func TestRequestContentLengthAndChunkedFlags(t *testing.T) {
	req := &Request{}
	feedAll(t, NewParserAndReset(req), []byte("POST /a HTTP/1.1\r\nHost: h\r\nContent-Length: 5\r\n\r\nhello"))

	if req.ContentLength() != 5 {
		t.Errorf("expected ContentLength 5, got %d", req.ContentLength())
	}
	if req.IsChunked() {
		t.Error("expected IsChunked false for a Content-Length body")
	}
}

func TestVersionString(t *testing.T) {
	v := Version{Major: 1, Minor: 1}
	if v.String() != "HTTP/1.1" {
		t.Errorf("expected HTTP/1.1, got %q", v.String())
	}
	if !(Version{Major: 1, Minor: 0}).IsHTTP10() {
		t.Error("expected HTTP/1.0 to report IsHTTP10")
	}
	if v.IsHTTP10() {
		t.Error("expected HTTP/1.1 to not report IsHTTP10")
	}
}

// NewParserAndReset is a small test convenience: build a parser bound
// to default limits, reset it onto req, and return it ready to Feed.
func NewParserAndReset(req *Request) *Parser {
	p := NewParser(DefaultLimits())
	p.Reset(req)
	return p
}
