package http1

import (
	"time"

	"github.com/yourusername/httpcore/internal/httphead"
	"github.com/yourusername/httpcore/internal/httpuri"
)

// Version is an HTTP version, restricted to {1.0, 1.1}.
type Version struct {
	Major, Minor int
}

func (v Version) String() string {
	digits := func(n int) byte { return byte('0' + n) }
	return "HTTP/" + string(digits(v.Major)) + "." + string(digits(v.Minor))
}

// IsHTTP10 reports whether this is the 1.0 wire version.
func (v Version) IsHTTP10() bool { return v.Major == 1 && v.Minor == 0 }

// Policy holds the per-route limits a METADATA-phase middleware may
// narrow before HEADER_KEY parsing begins. A zero field means
// "unchanged from the parser's configured default"; narrowing only
// ever tightens a limit, never loosens it past the default.
type Policy struct {
	Limits
}

// Apply overlays each non-zero field of p that is smaller than the
// matching field of base, returning the effective Limits the parser
// should enforce for the rest of this request.
func (p Policy) Apply(base Limits) Limits {
	if p.MaxMethodTokenSize > 0 && p.MaxMethodTokenSize < base.MaxMethodTokenSize {
		base.MaxMethodTokenSize = p.MaxMethodTokenSize
	}
	if p.MaxURISize > 0 && p.MaxURISize < base.MaxURISize {
		base.MaxURISize = p.MaxURISize
	}
	if p.MaxHeaderSize > 0 && p.MaxHeaderSize < base.MaxHeaderSize {
		base.MaxHeaderSize = p.MaxHeaderSize
	}
	if p.MaxBodySize > 0 && p.MaxBodySize < base.MaxBodySize {
		base.MaxBodySize = p.MaxBodySize
	}
	if p.MaxVersionLen > 0 && p.MaxVersionLen < base.MaxVersionLen {
		base.MaxVersionLen = p.MaxVersionLen
	}
	return base
}

// Request is the server-side request data model.
//
// Invariants enforced by the parser, not by this type: once
// MilestoneMetadataDone fires, Method/URI/Version are immutable;
// once MilestoneHeadersDone fires, Header is immutable. The parser
// is the only writer before those milestones; middleware is free to
// mutate Header between HeadersDone and body parsing.
type Request struct {
	Method      string
	KnownMethod KnownMethod
	URI         *httpuri.URI
	Version     Version
	Header      httphead.Header
	Body        []byte

	// Params is populated by the router on match. Nil until a route
	// match installs bindings.
	Params map[string]string

	Policy Policy

	// Close records whether the request carried Connection: close,
	// requiring the connection to close after the response. A FAILED
	// parse does not set it; the session closes the connection after
	// a failure on its own.
	Close bool

	chunked          bool
	contentLength    int64
	hasContentLength bool

	startedAt time.Time
}

// MarkStarted stamps the request with its arrival time. The session
// engine does not call it; the StartClock METADATA middleware does,
// once per request. Elapsed lets RESPONSE-phase middleware (e.g. access logging) report
// latency without the router or middleware package needing their own
// per-request clock storage.
func (r *Request) MarkStarted(t time.Time) { r.startedAt = t }

// Elapsed returns the time since MarkStarted, or zero if it was
// never called.
func (r *Request) Elapsed() time.Duration {
	if r.startedAt.IsZero() {
		return 0
	}
	return time.Since(r.startedAt)
}

// Reset clears a Request for reuse from a pool: after COMPLETE/FAILED,
// reset must yield a state equivalent to a freshly constructed zero
// value.
func (r *Request) Reset() {
	r.Method = ""
	r.KnownMethod = MethodOther
	r.URI = nil
	r.Version = Version{}
	r.Header.Reset()
	r.Body = r.Body[:0]
	if r.Params != nil {
		for k := range r.Params {
			delete(r.Params, k)
		}
	}
	r.Policy = Policy{}
	r.Close = false
	r.chunked = false
	r.contentLength = 0
	r.hasContentLength = false
	r.startedAt = time.Time{}
}

// IsChunked reports whether the request body uses chunked framing.
func (r *Request) IsChunked() bool { return r.chunked }

// ContentLength returns the declared Content-Length, or -1 if absent.
func (r *Request) ContentLength() int64 {
	if !r.hasContentLength {
		return -1
	}
	return r.contentLength
}
