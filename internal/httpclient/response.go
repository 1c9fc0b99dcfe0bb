package httpclient

import (
	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/httperr"
	"github.com/yourusername/httpcore/internal/httphead"
)

// Response is the client-side response data model: a status line and
// a header multi-map, plus a body buffer the parser fills in place.
type Response struct {
	Version http1.Version
	Status  int
	Reason  string
	Header  httphead.Header
	Body    []byte

	chunked          bool
	contentLength    int64
	hasContentLength bool
}

// Reset clears a Response for reuse across requests on the same
// connection.
func (r *Response) Reset() {
	r.Version = http1.Version{}
	r.Status = 0
	r.Reason = ""
	r.Header.Reset()
	r.Body = r.Body[:0]
	r.chunked = false
	r.contentLength = 0
	r.hasContentLength = false
}

// IsChunked reports whether the response body used chunked framing.
func (r *Response) IsChunked() bool { return r.chunked }

type rstate uint8

const (
	rstVersion rstate = iota
	rstStatus
	rstReasonLeadingSP
	rstReason
	rstStatusLineCR

	rstHeaderLineStart
	rstHeaderKey
	rstHeaderValueLeadingOWS
	rstHeaderValue
	rstHeaderCR
	rstHeadersCR

	rstBodyContentLength
	rstBodyUntilClose

	rstChunkSize
	rstChunkSizeExt
	rstChunkSizeCR
	rstChunkData
	rstChunkDataCR
	rstChunkDataLF
	rstChunkLastCR
	rstChunkLastLF

	rstCompletePending

	rstDone
	rstFailed
)

// Parser is the byte-incremental response state machine: the same
// Feed(data) (consumed, Milestone) shape as http1.Parser, run in the
// opposite direction: a status line instead of a request line, header
// names and values taken without character-class checks, and the
// response-direction body framing described on afterHeaders.
type Parser struct {
	state  rstate
	resp   *Response
	limits http1.Limits

	tmp        []byte
	headerName string

	hasTransferEncoding bool
	contentLengthSeen   bool
	contentLengthValue  int64

	chunkSize       int64
	bodyConsumed    int64
	headerBytesSeen int

	// noBodyByMethod is set from Reset's expectNoBody argument before
	// the first Feed when the request method was HEAD, or the request was
	// CONNECT with a 2xx status: RFC 9110 §9.3.2/§9.3.6 forbid
	// inferring a body from Content-Length/Transfer-Encoding alone in
	// those cases.
	noBodyByMethod bool

	err *httperr.Error
}

// NewParser creates a Parser bound to limits.
func NewParser(limits http1.Limits) *Parser {
	return &Parser{limits: limits, tmp: make([]byte, 0, 256)}
}

// Reset rebinds the parser to resp and clears all per-response state.
// expectNoBody should be true when the originating request was a HEAD
// (or a successful CONNECT), where the status line and headers may
// describe a body that will never actually arrive on the wire.
func (p *Parser) Reset(resp *Response, expectNoBody bool) {
	tmp := p.tmp[:0]
	*p = Parser{
		state:          rstVersion,
		resp:           resp,
		limits:         p.limits,
		tmp:            tmp,
		noBodyByMethod: expectNoBody,
	}
}

// Failed reports whether the parser is in the terminal FAILED state.
func (p *Parser) Failed() bool { return p.state == rstFailed }

// AwaitingClose reports whether the response declared neither
// Content-Length nor Transfer-Encoding, so its body is framed by
// connection close (RFC 9110 §6.3) rather than by a Milestone the
// wire itself carries. The caller must call FinishAtClose once the
// connection's read side reaches EOF.
func (p *Parser) AwaitingClose() bool { return p.state == rstBodyUntilClose }

// FinishAtClose completes a close-delimited body once EOF has been
// observed on the connection.
func (p *Parser) FinishAtClose() {
	p.state = rstDone
}

// Err returns the error that drove the parser to FAILED, or nil.
func (p *Parser) Err() *httperr.Error { return p.err }

// Feed supplies the next chunk of bytes, mirroring http1.Parser.Feed:
// MilestoneNone means every byte was consumed without reaching a
// pause point, any other Milestone means the caller stops at consumed
// and resumes with data[consumed:] once it has acted on the
// milestone.
func (p *Parser) Feed(data []byte) (consumed int, milestone http1.Milestone) {
	if p.state == rstCompletePending {
		p.state = rstDone
		return 0, http1.MilestoneComplete
	}

	i := 0
	for i < len(data) {
		b := data[i]

		switch p.state {
		case rstVersion:
			if err := p.stepVersion(b); err != nil {
				return p.failAt(i, err)
			}

		case rstStatus:
			if err := p.stepStatus(b); err != nil {
				return p.failAt(i, err)
			}

		case rstReasonLeadingSP:
			p.state = rstReason
			continue

		case rstReason:
			if b == crByte {
				p.resp.Reason = string(p.tmp)
				p.tmp = p.tmp[:0]
				p.state = rstStatusLineCR
				continue
			}
			p.tmp = append(p.tmp, b)

		case rstStatusLineCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			p.state = rstHeaderLineStart
			i++
			return i, http1.MilestoneMetadataDone

		case rstHeaderLineStart:
			if b == crByte {
				p.state = rstHeadersCR
				i++
				continue
			}
			p.state = rstHeaderKey
			if err := p.stepHeaderKey(b); err != nil {
				return p.failAt(i, err)
			}

		case rstHeaderKey:
			if err := p.stepHeaderKey(b); err != nil {
				return p.failAt(i, err)
			}

		case rstHeaderValueLeadingOWS:
			if b == ' ' || b == '\t' {
				if err := p.countHeaderByte(); err != nil {
					return p.failAt(i, err)
				}
			} else {
				p.state = rstHeaderValue
				if err := p.stepHeaderValue(b); err != nil {
					return p.failAt(i, err)
				}
			}

		case rstHeaderValue:
			if err := p.stepHeaderValue(b); err != nil {
				return p.failAt(i, err)
			}

		case rstHeaderCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			if err := p.commitHeader(); err != nil {
				return p.failAt(i, err)
			}
			p.state = rstHeaderLineStart

		case rstHeadersCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			i++
			noBody, untilClose, err := p.afterHeaders()
			if err != nil {
				p.fail(err)
				return i, http1.MilestoneFailed
			}
			switch {
			case noBody:
				p.state = rstCompletePending
			case untilClose:
				p.state = rstBodyUntilClose
			}
			return i, http1.MilestoneHeadersDone

		case rstBodyContentLength:
			n, done := p.stepBody(data[i:])
			i += n
			if done {
				p.state = rstCompletePending
				return i, http1.MilestoneDataChunkDone
			}
			continue

		case rstBodyUntilClose:
			p.resp.Body = append(p.resp.Body, data[i:]...)
			return len(data), http1.MilestoneDataChunkDone

		case rstChunkSize:
			if err := p.stepChunkSize(b); err != nil {
				return p.failAt(i, err)
			}

		case rstChunkSizeExt:
			if b == crByte {
				p.state = rstChunkSizeCR
			}

		case rstChunkSizeCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			if p.chunkSize == 0 {
				p.state = rstChunkLastCR
			} else {
				p.state = rstChunkData
			}

		case rstChunkData:
			n, boundary := p.stepChunkData(data[i:])
			i += n
			if boundary {
				continue
			}
			return i, http1.MilestoneNone

		case rstChunkDataCR:
			if b != crByte {
				return p.failWith(i, httperr.KindChunkSize, "expected CR after chunk data")
			}
			p.state = rstChunkDataLF

		case rstChunkDataLF:
			if b != lfByte {
				return p.failWith(i, httperr.KindChunkSize, "expected LF after chunk data CR")
			}
			p.chunkSize = 0
			p.state = rstChunkSize
			i++
			return i, http1.MilestoneDataChunkDone

		case rstChunkLastCR:
			if b != crByte {
				return p.failWith(i, httperr.KindChunkSize, "expected CR terminating chunked body")
			}
			p.state = rstChunkLastLF

		case rstChunkLastLF:
			if b != lfByte {
				return p.failWith(i, httperr.KindChunkSize, "expected LF terminating chunked body")
			}
			p.state = rstDone
			i++
			return i, http1.MilestoneComplete

		case rstFailed, rstDone:
			return i, http1.MilestoneNone
		}

		i++
	}
	return i, http1.MilestoneNone
}

func (p *Parser) failAt(i int, err *httperr.Error) (int, http1.Milestone) {
	p.fail(err)
	return i + 1, http1.MilestoneFailed
}

func (p *Parser) failWith(i int, kind httperr.Kind, msg string) (int, http1.Milestone) {
	p.fail(httperr.New(kind, msg))
	return i + 1, http1.MilestoneFailed
}

func (p *Parser) fail(e *httperr.Error) {
	p.state = rstFailed
	p.err = e
}

const (
	crByte byte = '\r'
	lfByte byte = '\n'
)

func (p *Parser) stepVersion(b byte) *httperr.Error {
	if b == ' ' {
		if len(p.tmp) == 0 {
			return httperr.New(httperr.KindVersionSyntax, "")
		}
		switch string(p.tmp) {
		case "HTTP/1.1":
			p.resp.Version = http1.Version{Major: 1, Minor: 1}
		case "HTTP/1.0":
			p.resp.Version = http1.Version{Major: 1, Minor: 0}
		default:
			return httperr.New(httperr.KindVersionSyntax, "")
		}
		p.tmp = p.tmp[:0]
		p.state = rstStatus
		return nil
	}
	if len(p.tmp) >= p.limits.MaxVersionLen {
		return httperr.New(httperr.KindVersionSyntax, "HTTP version literal too long")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) stepStatus(b byte) *httperr.Error {
	if b == ' ' {
		if len(p.tmp) != 3 {
			return httperr.New(httperr.KindVersionSyntax, "invalid status code")
		}
		status := 0
		for _, c := range p.tmp {
			if c < '0' || c > '9' {
				return httperr.New(httperr.KindVersionSyntax, "invalid status code")
			}
			status = status*10 + int(c-'0')
		}
		p.resp.Status = status
		p.tmp = p.tmp[:0]
		p.state = rstReasonLeadingSP
		return nil
	}
	if len(p.tmp) >= 3 {
		return httperr.New(httperr.KindVersionSyntax, "invalid status code")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) countHeaderByte() *httperr.Error {
	p.headerBytesSeen++
	if p.headerBytesSeen > p.limits.MaxHeaderSize {
		return httperr.New(httperr.KindHeadersTooLarge, "")
	}
	return nil
}

func (p *Parser) stepHeaderKey(b byte) *httperr.Error {
	if err := p.countHeaderByte(); err != nil {
		return err
	}
	if b == ':' {
		if len(p.tmp) == 0 {
			return httperr.New(httperr.KindHeaderName, "")
		}
		p.headerName = string(p.tmp)
		p.tmp = p.tmp[:0]
		p.state = rstHeaderValueLeadingOWS
		return nil
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) stepHeaderValue(b byte) *httperr.Error {
	if b == crByte {
		p.state = rstHeaderCR
		return nil
	}
	if err := p.countHeaderByte(); err != nil {
		return err
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) commitHeader() *httperr.Error {
	value := trimTrailingOWS(p.tmp)
	name := p.headerName
	p.tmp = p.tmp[:0]
	p.headerName = ""

	res := p.resp.Header.Add(name, string(value))
	if res.Err != nil {
		return res.Err
	}
	return p.trackFramingHeader(name, string(value))
}

func trimTrailingOWS(b []byte) []byte {
	end := len(b)
	for end > 0 && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return b[:end]
}

func (p *Parser) trackFramingHeader(name, value string) *httperr.Error {
	switch {
	case equalFold(name, httphead.NameContentLength):
		n, convErr := parseNonNegativeInt(value)
		if convErr != nil {
			return httperr.New(httperr.KindHeaderValue, "invalid content-length")
		}
		if p.contentLengthSeen && p.contentLengthValue != n {
			return httperr.New(httperr.KindFraming, "conflicting content-length values")
		}
		p.contentLengthSeen = true
		p.contentLengthValue = n
		p.resp.contentLength = n
		p.resp.hasContentLength = true
	case equalFold(name, httphead.NameTransferEncoding):
		if !equalFold(value, "chunked") {
			return httperr.New(httperr.KindTransferEncodingUnsupported, "")
		}
		p.hasTransferEncoding = true
	}
	return nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 32
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 32
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func parseNonNegativeInt(s string) (int64, error) {
	if s == "" {
		return 0, httperr.New(httperr.KindHeaderValue, "")
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, httperr.New(httperr.KindHeaderValue, "")
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}

// afterHeaders applies the response-direction framing rules: a
// response to a HEAD request (or a 1xx/204/304 status) never has a
// body regardless of what Content-Length/Transfer-Encoding claim
// (RFC 9110 §9.3.2, §15); otherwise Transfer-Encoding wins over
// Content-Length, and a response with neither header runs until the
// connection closes (RFC 9110 §6.3's historical HTTP/1.0 framing,
// still valid for HTTP/1.1 responses that omit both).
func (p *Parser) afterHeaders() (noBody, untilClose bool, err *httperr.Error) {
	if p.noBodyByMethod || http1.ForbidsBody(p.resp.Status) {
		return true, false, nil
	}

	if p.hasTransferEncoding {
		p.resp.chunked = true
		p.state = rstChunkSize
		return false, false, nil
	}

	if p.contentLengthSeen {
		if p.contentLengthValue == 0 {
			return true, false, nil
		}
		if p.contentLengthValue > p.limits.MaxBodySize {
			return false, false, httperr.New(httperr.KindBodyTooLarge, "")
		}
		p.state = rstBodyContentLength
		p.bodyConsumed = 0
		if cap(p.resp.Body) < int(p.contentLengthValue) {
			p.resp.Body = make([]byte, 0, p.contentLengthValue)
		}
		return false, false, nil
	}

	return false, true, nil
}

func (p *Parser) stepBody(data []byte) (consumed int, done bool) {
	remaining := p.contentLengthValue - p.bodyConsumed
	take := int64(len(data))
	if take > remaining {
		take = remaining
	}
	p.resp.Body = append(p.resp.Body, data[:take]...)
	p.bodyConsumed += take
	return int(take), p.bodyConsumed >= p.contentLengthValue
}

func (p *Parser) stepChunkSize(b byte) *httperr.Error {
	if b == crByte {
		p.state = rstChunkSizeCR
		return nil
	}
	if b == ';' {
		p.state = rstChunkSizeExt
		return nil
	}
	v, ok := hexDigit(b)
	if !ok {
		return httperr.New(httperr.KindChunkSize, "")
	}
	p.chunkSize = p.chunkSize*16 + int64(v)
	if p.chunkSize < 0 || p.bodyConsumed+p.chunkSize > p.limits.MaxBodySize {
		return httperr.New(httperr.KindBodyTooLarge, "")
	}
	return nil
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

func (p *Parser) stepChunkData(data []byte) (consumed int, boundary bool) {
	remaining := p.chunkSize
	take := int64(len(data))
	if take > remaining {
		take = remaining
	}
	p.resp.Body = append(p.resp.Body, data[:take]...)
	p.chunkSize -= take
	p.bodyConsumed += take
	if p.chunkSize == 0 {
		p.state = rstChunkDataCR
		return int(take), true
	}
	return int(take), false
}
