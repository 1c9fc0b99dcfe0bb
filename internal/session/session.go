// Package session implements the per-connection engine: it drives the
// request parser, the router and middleware chain, and the response
// serializer over a stream.Handler, strictly serially per connection.
package session

import (
	"io"
	"log"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/middleware"
	"github.com/yourusername/httpcore/internal/router"
	"github.com/yourusername/httpcore/internal/stream"
)

// Session is one accepted connection's request/response engine. It is
// reused across every keep-alive request on the connection (reset in
// place) and, via Pool, across connections too.
type Session struct {
	router router.IRouter
	cfg    Config

	parser     *http1.Parser
	req        *http1.Request
	resp       *http1.Response
	serializer *http1.Serializer

	readBuf []byte

	recovery middleware.RecoveryConfig
	timeout  middleware.TimeoutConfig
	logger   *log.Logger
}

// New builds a Session bound to r and cfg. The returned Session is
// not yet bound to a connection; call Run with a stream.Handler for
// each accepted connection, or better, obtain one from a Pool.
func New(r router.IRouter, cfg Config) *Session {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 64 * 1024
	}
	s := &Session{
		router:     r,
		cfg:        cfg,
		parser:     http1.NewParser(cfg.Limits),
		req:        &http1.Request{},
		resp:       &http1.Response{},
		serializer: http1.NewSerializer(),
		readBuf:    make([]byte, cfg.ReadBufferSize),
		recovery:   middleware.DefaultRecoveryConfig(),
		timeout:    middleware.TimeoutConfig{Duration: cfg.HandlerTimeout},
		logger:     log.Default(),
	}
	return s
}

// Run drives h to completion: one or more request/response cycles
// until the connection closes, a read/write error occurs, or a
// non-reusable response is sent. It always shuts h down before
// returning, and always returns a nil error for an orderly close.
func (s *Session) Run(h stream.Handler) error {
	defer h.Shutdown()

	requestCount := 0
	pending := s.readBuf[:0]

	for {
		s.parser.Reset(s.req)
		s.resp.Reset()
		s.serializer.Reset()

		outcome, err := s.runOneRequest(h, &pending)
		if err != nil {
			if err == errConnectionClosed || err == io.EOF {
				return nil
			}
			s.logger.Printf("session: read error: %v", err)
			return err
		}

		requestCount++

		// A hijacked response owns writing its own reply (e.g. a
		// websocket upgrade's 101 is emitted by the library that
		// also constructs the post-upgrade connection wrapper), so
		// the serializer never touches the wire for it.
		if s.resp.Hijack != nil {
			s.runHijack(h)
			return nil
		}

		if err := s.writeResponse(h); err != nil {
			s.logger.Printf("session: write error: %v", err)
			return err
		}

		if !s.shouldKeepAlive(outcome, requestCount) {
			return nil
		}
	}
}

// requestOutcome records how a single request/response cycle ended,
// for the keep-alive decision afterward.
type requestOutcome struct {
	failed    bool
	reqClose  bool
	respClose bool
}

// runOneRequest reads and feeds bytes until the parser reaches
// COMPLETE or FAILED, dispatching middleware and the route handler
// along the way. pending carries bytes already read but not yet
// consumed by the parser across calls (pipelined requests sharing one
// read() worth of bytes).
func (s *Session) runOneRequest(h stream.Handler, pending *[]byte) (requestOutcome, error) {
	var matched router.Match
	haveMatch := false
	halted := false

	for {
		data := *pending
		if len(data) == 0 {
			n, err := h.Read(s.readBuf)
			if err != nil {
				return requestOutcome{}, err
			}
			if n == 0 {
				return requestOutcome{}, errConnectionClosed
			}
			data = s.readBuf[:n]
		}

		for len(data) > 0 {
			consumed, milestone := s.parser.Feed(data)
			data = data[consumed:]

			switch milestone {
			case http1.MilestoneNone:
				// Exhausted this chunk without reaching a pause
				// point; read more.

			case http1.MilestoneMetadataDone:
				matched = s.router.Match(s.req.Method, s.req.URI.Path)
				haveMatch = true
				switch matched.Result {
				case router.NoMatch:
					s.buildStatusResponse(404, "not found")
					halted = true
				case router.MethodNotAllowed:
					s.buildStatusResponse(405, "method not allowed")
					halted = true
				default:
					s.req.Params = matched.Params
					if !middleware.Run(s.router, matched.Route, middleware.PhaseMetadata, s.req, s.resp) {
						s.haltChain()
						halted = true
					} else {
						s.parser.SetLimits(s.req.Policy.Apply(s.cfg.Limits))
					}
				}

			case http1.MilestoneHeadersDone:
				if haveMatch && matched.Result == router.Matched && !halted {
					if !middleware.Run(s.router, matched.Route, middleware.PhaseHeader, s.req, s.resp) {
						s.haltChain()
						halted = true
					}
				}

			case http1.MilestoneDataChunkDone:
				if haveMatch && matched.Result == router.Matched && !halted {
					if !middleware.Run(s.router, matched.Route, middleware.PhaseBody, s.req, s.resp) {
						s.haltChain()
						halted = true
					}
				}

			case http1.MilestoneComplete:
				s.dispatch(matched, haveMatch, halted)
				*pending = append([]byte(nil), data...)
				return requestOutcome{
					reqClose:  s.req.Close,
					respClose: responseWantsClose(s.resp),
				}, nil

			case http1.MilestoneFailed:
				s.buildParserErrorResponse()
				*pending = append([]byte(nil), data...)
				return requestOutcome{failed: true, reqClose: true}, nil
			}
		}
	}
}

// haltChain synthesizes a 400 response when a middleware function
// halts the chain (returns false) without producing one of its own;
// a middleware that already set resp.Status before returning false
// keeps that status instead.
func (s *Session) haltChain() {
	if s.resp.Status == 0 {
		s.buildStatusResponse(400, "bad request")
	}
}

// dispatch invokes the matched route's handler (wrapped in panic
// recovery and an optional timeout) and runs RESPONSE middleware. For
// an unmatched request (404/405) or a chain halted earlier (halted),
// no route handler runs, but global RESPONSE middleware — e.g. access
// logging — still runs, since every framework in the corpus logs
// error responses the same as successful ones.
func (s *Session) dispatch(matched router.Match, haveMatch bool, halted bool) {
	var rt *router.Route
	if haveMatch && matched.Result == router.Matched {
		rt = matched.Route
	}

	if rt != nil && !halted {
		call := func() error {
			return rt.Handler(s.req, s.resp)
		}
		run := func() error {
			return middleware.Recover(s.recovery, s.resp, call)
		}
		var err error
		if s.timeout.Duration > 0 {
			err = middleware.RunWithTimeout(s.timeout, s.resp, run)
		} else {
			err = run()
		}
		if err != nil && s.resp.Status == 0 {
			s.buildStatusResponse(500, "internal server error")
		}
		if s.resp.Status == 0 {
			s.resp.Status = 200
		}
	}

	middleware.Run(s.router, rt, middleware.PhaseResponse, s.req, s.resp)
}

// buildStatusResponse fills resp with a generic body for status,
// unless the router has a custom handler registered via OnStatus. 404
// gets a minimal HTML body; every other synthesized status gets plain
// text.
func (s *Session) buildStatusResponse(status int, message string) {
	if h, ok := s.router.StatusHandler(status); ok {
		s.resp.Status = status
		if err := h(s.req, s.resp); err == nil {
			return
		}
	}
	s.resp.Status = status
	if status == 404 {
		s.resp.Header.Add("Content-Type", "text/html; charset=utf-8")
		s.resp.Body = append(s.resp.Body[:0], "<html><head><title>404 Not Found</title></head>"+
			"<body><h1>Not Found</h1><p>"+message+"</p></body></html>"...)
		return
	}
	s.resp.Header.Add("Content-Type", "text/plain; charset=utf-8")
	s.resp.Body = append(s.resp.Body[:0], message...)
}

// buildParserErrorResponse maps a FAILED parse to its mandated status,
// preferring a registered OnStatus handler if present.
func (s *Session) buildParserErrorResponse() {
	e := s.parser.Err()
	status := 400
	message := "bad request"
	if e != nil {
		status = e.ExpectedStatus()
		message = e.Message
	}
	s.buildStatusResponse(status, message)
	s.resp.Header.Add("Connection", "close")
}

// responseWantsClose reports whether the handler or middleware set
// Connection: close on the response.
func responseWantsClose(resp *http1.Response) bool {
	return resp.Header.ContainsValue("connection", "close", true)
}

// shouldKeepAlive decides whether the connection stays open for
// another request.
func (s *Session) shouldKeepAlive(outcome requestOutcome, requestCount int) bool {
	if outcome.failed {
		return false
	}
	if s.cfg.MaxRequestsPerConnection > 0 && requestCount >= s.cfg.MaxRequestsPerConnection {
		return false
	}
	if outcome.reqClose || outcome.respClose {
		return false
	}
	if s.req.Version.IsHTTP10() {
		return s.req.Header.ContainsValue("connection", "keep-alive", true)
	}
	return true
}

// writeResponse pulls segments from the serializer and writes them
// through h until drained.
func (s *Session) writeResponse(h stream.Handler) error {
	switch {
	case s.resp.Chunked:
		// The handler signature hands back a fully buffered Response,
		// not an incremental writer, so a "chunked" response is
		// composed as one chunk plus the terminator rather than
		// streamed to the wire as the handler produces it.
		s.serializer.WriteStatusAndHeaders(s.resp)
		s.serializer.WriteChunk(s.resp.Body)
		s.serializer.WriteFinalChunk()
	default:
		s.serializer.WriteResponse(s.resp)
	}
	for {
		data, ok := s.serializer.Pull(s.cfg.ReadBufferSize)
		if !ok {
			return nil
		}
		if err := writeAll(h, data); err != nil {
			return err
		}
	}
}

// runHijack hands the raw connection to the handler-installed Hijack
// callback, bypassing the rest of the request/response loop. It
// blocks until the callback returns, since whatever protocol takes
// over (e.g. websocket frames) owns the connection until then; the
// caller's deferred h.Shutdown() closes it afterward.
func (s *Session) runHijack(h stream.Handler) {
	rp, ok := h.(stream.RawConnProvider)
	if !ok {
		return
	}
	s.resp.Hijack(rp.RawConn())
}

// writeAll writes data in full, resuming from the same offset after a
// partial write.
func writeAll(h stream.Handler, data []byte) error {
	for len(data) > 0 {
		n, err := h.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return errConnectionClosed
		}
		data = data[n:]
	}
	return nil
}

var errConnectionClosed = &connClosedError{}

type connClosedError struct{}

func (*connClosedError) Error() string { return "session: connection closed" }
