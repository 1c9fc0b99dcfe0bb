// Package httperr defines the closed error taxonomy shared by the
// request parser and response serializer.
//
// Every parse failure carries a severity and the HTTP status the
// session must reply with. The mapping from Kind to Status is fixed;
// callers never choose the status themselves.
package httperr

import "fmt"

// Severity distinguishes errors that must close the connection
// (Critical) from softer conditions a session may recover from.
type Severity uint8

const (
	// SeverityWarning marks a condition worth surfacing but that
	// does not by itself invalidate the request.
	SeverityWarning Severity = iota
	// SeverityCritical marks a framing violation; the session must
	// reply with the mapped status and close the connection.
	SeverityCritical
)

// Kind is the closed enumeration of parser/serializer failure modes.
type Kind uint8

const (
	KindNone Kind = iota
	KindMethodToken
	KindURISyntax
	KindURITooLong
	KindVersionSyntax
	KindHeaderName
	KindHeaderValue
	KindHeaderCRLF
	KindHeadersTooLarge
	KindFraming
	KindChunkSize
	KindBodyTooLarge
	KindLengthRequired
	KindPayloadNoBodyAllowed
	KindTransferEncodingUnsupported
)

// kindInfo is the fixed Kind → (status, severity, default message)
// table. It is built once and never mutated, so lookups need no
// locking.
var kindInfo = [...]struct {
	status   int
	severity Severity
	message  string
}{
	KindNone:                        {0, SeverityWarning, ""},
	KindMethodToken:                  {400, SeverityCritical, "invalid method token"},
	KindURISyntax:                    {400, SeverityCritical, "invalid request-target"},
	KindURITooLong:                   {414, SeverityCritical, "request-target too long"},
	KindVersionSyntax:                {400, SeverityCritical, "invalid HTTP version"},
	KindHeaderName:                   {400, SeverityCritical, "invalid header field name"},
	KindHeaderValue:                  {400, SeverityCritical, "invalid header field value"},
	KindHeaderCRLF:                   {400, SeverityCritical, "malformed header line termination"},
	KindHeadersTooLarge:              {431, SeverityCritical, "request header fields too large"},
	KindFraming:                      {400, SeverityCritical, "conflicting message framing"},
	KindChunkSize:                    {400, SeverityCritical, "invalid chunk size"},
	KindBodyTooLarge:                 {413, SeverityCritical, "payload too large"},
	KindLengthRequired:               {411, SeverityCritical, "length required"},
	KindPayloadNoBodyAllowed:         {400, SeverityCritical, "request method does not allow a body"},
	KindTransferEncodingUnsupported:  {501, SeverityCritical, "unsupported transfer-encoding"},
}

// Error is a structured parser/serializer error. It never unwinds the
// stack — every parser state transition that can fail returns one of
// these as a normal value.
type Error struct {
	Kind     Kind
	Status   int
	Severity Severity
	Message  string
}

// New builds an Error for kind, using the fixed status/severity and,
// if msg is empty, the table's default message.
func New(kind Kind, msg string) *Error {
	info := kindInfo[kind]
	if msg == "" {
		msg = info.message
	}
	return &Error{Kind: kind, Status: info.status, Severity: info.severity, Message: msg}
}

func (e *Error) Error() string {
	return fmt.Sprintf("httperr: %s (status %d)", e.Message, e.Status)
}

// ExpectedStatus returns the HTTP status the session must answer
// with for this error.
func (e *Error) ExpectedStatus() int { return e.Status }

// IsCritical reports whether the connection must close after the
// error response is flushed.
func (e *Error) IsCritical() bool { return e.Severity == SeverityCritical }
