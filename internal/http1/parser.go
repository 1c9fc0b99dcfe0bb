// Package http1 implements the byte-incremental HTTP/1.1 request
// parser and the pull-based response serializer.
//
// The parser never blocks and never allocates more than the current
// token requires: Feed accepts an arbitrary-length slice, consumes as
// many bytes as it can without violating framing, and returns either
// because input ran out or because it reached a Milestone. It is a
// plain synchronous function — no goroutines, no channels — so the
// state machine is fully testable in isolation.
package http1

import (
	"github.com/yourusername/httpcore/internal/httperr"
	"github.com/yourusername/httpcore/internal/httpuri"
)

type state uint8

const (
	stMethod state = iota
	stURI
	stVersion
	stReqLineCR // saw CR ending the request line, expect LF

	stHeaderLineStart // first byte of a header line, or CR of the blank line
	stHeaderKey
	stHeaderValueLeadingOWS
	stHeaderValue
	stHeaderCR  // saw CR ending a header line, expect LF
	stHeadersCR // saw CR of the blank line, expect LF

	stBodyContentLength

	stChunkSize
	stChunkSizeExt
	stChunkSizeCR // saw CR ending the chunk-size line, expect LF
	stChunkData
	stChunkDataCR // chunk data consumed, expect the CR ending it
	stChunkDataLF // saw CR ending chunk data, expect LF
	stChunkLastCR // saw the zero-size chunk line, expect CR of the terminating blank line
	stChunkLastLF // saw CR of the terminating blank line, expect LF: body done

	// stCompletePending fires MilestoneComplete on the very next Feed
	// call (even with zero bytes available), letting HEADERS_DONE /
	// DATA_CHUNK_DONE surface as their own milestone before COMPLETE.
	stCompletePending

	stDone
	stFailed
)

// Parser is the HTTP/1.1 request state machine. The zero value is
// not usable; construct with NewParser.
type Parser struct {
	state  state
	req    *Request
	limits Limits

	tmp []byte // accumulates the current token (method/uri/version/header key/value)

	headerName string

	hasTransferEncoding bool
	hasHost             bool
	contentLengthSeen   bool
	contentLengthValue  int64

	chunkSize       int64
	bodyConsumed    int64
	headerBytesSeen int

	err *httperr.Error
}

// NewParser creates a parser bound to limits. Call Reset(req) before
// the first Feed of each request.
func NewParser(limits Limits) *Parser {
	return &Parser{limits: limits, tmp: make([]byte, 0, 256)}
}

// Reset rebinds the parser to req and clears all per-request state,
// making the parser ready to parse req's request line from byte 0.
// Calling Reset then feeding bytes one-at-a-time must behave
// identically to feeding them all at once.
func (p *Parser) Reset(req *Request) {
	tmp := p.tmp[:0]
	*p = Parser{
		state:  stMethod,
		req:    req,
		limits: p.limits,
		tmp:    tmp,
	}
}

// SetLimits replaces the limits the parser enforces from this point
// on. The session engine calls this after running the METADATA phase,
// letting a route's middleware narrow limits (e.g. body size) based on
// the URI before HEADER_KEY parsing and body framing see them.
func (p *Parser) SetLimits(limits Limits) { p.limits = limits }

// Failed reports whether the parser is in the terminal FAILED state.
func (p *Parser) Failed() bool { return p.state == stFailed }

// Err returns the error that drove the parser to FAILED, or nil.
func (p *Parser) Err() *httperr.Error { return p.err }

// Feed supplies the next chunk of bytes. It returns the number of
// bytes consumed and the Milestone reached, if any.
//
// When milestone is MilestoneNone, every byte of data was consumed
// without reaching a pause point; the caller should read more bytes
// and Feed again. When milestone is not MilestoneNone, the caller
// must stop at consumed, run the corresponding middleware phase, and
// resume Feed with data[consumed:] (plus any newly read bytes) — the
// parser's internal buffers are left in a fully resumable state
// either way, including mid-token and mid-CRLF.
//
// Feed may return a milestone while consuming zero bytes: some
// milestones (an empty-body COMPLETE right after HEADERS_DONE) carry
// no further wire bytes of their own.
func (p *Parser) Feed(data []byte) (consumed int, milestone Milestone) {
	if p.state == stCompletePending {
		p.state = stDone
		return 0, MilestoneComplete
	}

	i := 0
	for i < len(data) {
		b := data[i]

		switch p.state {
		case stMethod:
			if err := p.stepMethod(b); err != nil {
				return p.failAt(i, err)
			}

		case stURI:
			if err := p.stepURI(b); err != nil {
				return p.failAt(i, err)
			}

		case stVersion:
			if err := p.stepVersion(b); err != nil {
				return p.failAt(i, err)
			}

		case stReqLineCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			p.state = stHeaderLineStart
			i++
			return i, MilestoneMetadataDone

		case stHeaderLineStart:
			if b == crByte {
				p.state = stHeadersCR
				i++
				continue
			}
			p.state = stHeaderKey
			if err := p.stepHeaderKey(b); err != nil {
				return p.failAt(i, err)
			}

		case stHeaderKey:
			if err := p.stepHeaderKey(b); err != nil {
				return p.failAt(i, err)
			}

		case stHeaderValueLeadingOWS:
			if b == ' ' || b == '\t' {
				if err := p.countHeaderByte(); err != nil {
					return p.failAt(i, err)
				}
			} else {
				p.state = stHeaderValue
				if err := p.stepHeaderValue(b); err != nil {
					return p.failAt(i, err)
				}
			}

		case stHeaderValue:
			if err := p.stepHeaderValue(b); err != nil {
				return p.failAt(i, err)
			}

		case stHeaderCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			if err := p.countHeaderByte(); err != nil {
				return p.failAt(i, err)
			}
			if err := p.commitHeader(); err != nil {
				return p.failAt(i, err)
			}
			p.state = stHeaderLineStart

		case stHeadersCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			i++
			noBody, err := p.afterHeaders()
			if err != nil {
				p.fail(err)
				return i, MilestoneFailed
			}
			if noBody {
				p.state = stCompletePending
			}
			return i, MilestoneHeadersDone

		case stBodyContentLength:
			n, done := p.stepBody(data[i:])
			i += n
			if done {
				p.state = stCompletePending
				return i, MilestoneDataChunkDone
			}
			continue

		case stChunkSize:
			if err := p.stepChunkSize(b); err != nil {
				return p.failAt(i, err)
			}

		case stChunkSizeExt:
			if b == crByte {
				p.state = stChunkSizeCR
			}

		case stChunkSizeCR:
			if b != lfByte {
				return p.failWith(i, httperr.KindHeaderCRLF, "expected LF after CR")
			}
			if p.chunkSize == 0 {
				p.state = stChunkLastCR
			} else {
				p.state = stChunkData
			}

		case stChunkData:
			n, boundary := p.stepChunkData(data[i:])
			i += n
			if boundary {
				continue
			}
			return i, MilestoneNone

		case stChunkDataCR:
			if b != crByte {
				return p.failWith(i, httperr.KindChunkSize, "expected CR after chunk data")
			}
			p.state = stChunkDataLF

		case stChunkDataLF:
			if b != lfByte {
				return p.failWith(i, httperr.KindChunkSize, "expected LF after chunk data CR")
			}
			p.chunkSize = 0
			p.state = stChunkSize
			i++
			return i, MilestoneDataChunkDone

		case stChunkLastCR:
			if b != crByte {
				return p.failWith(i, httperr.KindChunkSize, "expected CR terminating chunked body")
			}
			p.state = stChunkLastLF

		case stChunkLastLF:
			if b != lfByte {
				return p.failWith(i, httperr.KindChunkSize, "expected LF terminating chunked body")
			}
			p.state = stDone
			i++
			return i, MilestoneComplete

		case stFailed, stDone:
			return i, MilestoneNone
		}

		i++
	}
	return i, MilestoneNone
}

func (p *Parser) failAt(i int, err *httperr.Error) (int, Milestone) {
	p.fail(err)
	return i + 1, MilestoneFailed
}

func (p *Parser) failWith(i int, kind httperr.Kind, msg string) (int, Milestone) {
	p.fail(httperr.New(kind, msg))
	return i + 1, MilestoneFailed
}

func (p *Parser) fail(e *httperr.Error) {
	p.state = stFailed
	p.err = e
}

// --- request line ---

func (p *Parser) stepMethod(b byte) *httperr.Error {
	if b == ' ' {
		if len(p.tmp) == 0 {
			return httperr.New(httperr.KindMethodToken, "")
		}
		p.req.Method = string(p.tmp)
		p.req.KnownMethod = ClassifyMethod(p.req.Method)
		p.tmp = p.tmp[:0]
		p.state = stURI
		return nil
	}
	if !tchar[b] {
		return httperr.New(httperr.KindMethodToken, "")
	}
	if len(p.tmp) >= p.limits.MaxMethodTokenSize {
		return httperr.New(httperr.KindMethodToken, "method token exceeds limit")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) stepURI(b byte) *httperr.Error {
	if b == ' ' {
		if len(p.tmp) == 0 {
			return httperr.New(httperr.KindURISyntax, "")
		}
		uri, err := httpuri.ParseOrigin(string(p.tmp))
		if err != nil {
			if err == httpuri.ErrFragmentRejected {
				return httperr.New(httperr.KindURISyntax, "fragments are not allowed in the request-target")
			}
			return httperr.New(httperr.KindURISyntax, "")
		}
		p.req.URI = uri
		p.tmp = p.tmp[:0]
		p.state = stVersion
		return nil
	}
	if b < 0x21 {
		return httperr.New(httperr.KindURISyntax, "")
	}
	if len(p.tmp) >= p.limits.MaxURISize {
		return httperr.New(httperr.KindURITooLong, "")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) stepVersion(b byte) *httperr.Error {
	if b == crByte {
		p.state = stReqLineCR
		return p.finishVersion()
	}
	if len(p.tmp) >= p.limits.MaxVersionLen {
		return httperr.New(httperr.KindVersionSyntax, "HTTP version literal too long")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) finishVersion() *httperr.Error {
	lit := string(p.tmp)
	p.tmp = p.tmp[:0]
	switch lit {
	case "HTTP/1.1":
		p.req.Version = Version{1, 1}
	case "HTTP/1.0":
		p.req.Version = Version{1, 0}
	default:
		return httperr.New(httperr.KindVersionSyntax, "")
	}
	return nil
}

// --- headers ---

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
		p.state = stHeaderValueLeadingOWS
		return nil
	}
	if !tchar[b] {
		return httperr.New(httperr.KindHeaderName, "")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) stepHeaderValue(b byte) *httperr.Error {
	if err := p.countHeaderByte(); err != nil {
		return err
	}
	if b == crByte {
		p.state = stHeaderCR
		return nil
	}
	if !vcharOrObsText[b] {
		return httperr.New(httperr.KindHeaderValue, "")
	}
	p.tmp = append(p.tmp, b)
	return nil
}

func (p *Parser) commitHeader() *httperr.Error {
	value := trimTrailingOWS(p.tmp)
	name := p.headerName
	p.tmp = p.tmp[:0]
	p.headerName = ""

	res := p.req.Header.Add(name, string(value))
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

// trackFramingHeader applies message-framing rules as each relevant
// header is added: duplicate/conflicting Content-Length,
// Transfer-Encoding validity, and duplicate Host detection.
func (p *Parser) trackFramingHeader(name, value string) *httperr.Error {
	switch {
	case equalFold(name, "content-length"):
		n, convErr := parseNonNegativeInt(value)
		if convErr != nil {
			return httperr.New(httperr.KindHeaderValue, "invalid content-length")
		}
		if p.contentLengthSeen && p.contentLengthValue != n {
			return httperr.New(httperr.KindFraming, "conflicting content-length values")
		}
		p.contentLengthSeen = true
		p.contentLengthValue = n
		p.req.contentLength = n
		p.req.hasContentLength = true
	case equalFold(name, "transfer-encoding"):
		if !equalFold(value, "chunked") {
			return httperr.New(httperr.KindTransferEncodingUnsupported, "")
		}
		p.hasTransferEncoding = true
	case equalFold(name, "host"):
		if p.hasHost {
			return httperr.New(httperr.KindHeaderName, "duplicate host header")
		}
		p.hasHost = true
	case equalFold(name, "connection"):
		if containsToken(value, "close") {
			p.req.Close = true
		}
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

func containsToken(list, token string) bool {
	start := 0
	for start <= len(list) {
		end := start
		for end < len(list) && list[end] != ',' {
			end++
		}
		part := trimOWSString(list[start:end])
		if equalFold(part, token) {
			return true
		}
		if end == len(list) {
			break
		}
		start = end + 1
	}
	return false
}

func trimOWSString(s string) string {
	start, end := 0, len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
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
		if n < 0 {
			return 0, httperr.New(httperr.KindHeaderValue, "overflow")
		}
	}
	return n, nil
}

// --- body framing decision, made once at HEADERS_DONE ---

// afterHeaders applies the HEADERS_DONE framing decisions and
// transitions into the right body state. It returns (true, nil) when
// the request has no body at all, in which case the caller arranges
// for MilestoneComplete to fire on the very next Feed call.
func (p *Parser) afterHeaders() (noBody bool, err *httperr.Error) {
	if p.hasTransferEncoding && p.contentLengthSeen {
		return false, httperr.New(httperr.KindFraming, "transfer-encoding and content-length both present")
	}
	if p.hasTransferEncoding && p.req.Version.IsHTTP10() {
		return false, httperr.New(httperr.KindTransferEncodingUnsupported, "transfer-encoding not valid on HTTP/1.0")
	}

	if p.hasTransferEncoding {
		p.req.chunked = true
		p.state = stChunkSize
		return false, nil
	}

	if p.contentLengthSeen {
		if p.contentLengthValue == 0 {
			return true, nil
		}
		if p.contentLengthValue > p.limits.MaxBodySize {
			return false, httperr.New(httperr.KindBodyTooLarge, "")
		}
		p.state = stBodyContentLength
		p.bodyConsumed = 0
		if cap(p.req.Body) < int(p.contentLengthValue) {
			p.req.Body = make([]byte, 0, p.contentLengthValue)
		}
		return false, nil
	}

	// No body-framing headers: GET/HEAD/OPTIONS/TRACE never carry a
	// body; other methods without Content-Length or Transfer-Encoding
	// are likewise treated as bodyless, per RFC 9110 §8.6 (absence of
	// a framing header means no body).
	return true, nil
}

// --- content-length body ---

func (p *Parser) stepBody(data []byte) (consumed int, done bool) {
	remaining := p.contentLengthValue - p.bodyConsumed
	take := int64(len(data))
	if take > remaining {
		take = remaining
	}
	p.req.Body = append(p.req.Body, data[:take]...)
	p.bodyConsumed += take
	return int(take), p.bodyConsumed >= p.contentLengthValue
}

// --- chunked body ---

func (p *Parser) stepChunkSize(b byte) *httperr.Error {
	if b == crByte {
		p.state = stChunkSizeCR
		return nil
	}
	if b == ';' {
		p.state = stChunkSizeExt
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
	p.req.Body = append(p.req.Body, data[:take]...)
	p.chunkSize -= take
	p.bodyConsumed += take
	if p.chunkSize == 0 {
		p.state = stChunkDataCR
		return int(take), true
	}
	return int(take), false
}
