package router

import (
	"errors"

	"github.com/yourusername/httpcore/internal/http1"
)

var errWildcardNotLast = errors.New("router: wildcard segment must be the last segment in a pattern")

// Handler dispatches a matched request and populates the response.
// A non-nil error makes the session reply 500 unless the handler
// already set resp.Status, in which case the handler's own response
// is sent.
type Handler func(req *http1.Request, resp *http1.Response) error

// MiddlewareFunc is one link of a phase chain: it may inspect or
// mutate req/resp and returns false to halt the chain. If no response
// has been produced by the time it returns false, the session
// manufactures a 400.
type MiddlewareFunc func(req *http1.Request, resp *http1.Response) bool

// Route is one registered (method, pattern) pair together with its
// own phase-local middleware, attached after the router's global
// chain runs first.
type Route struct {
	Method        string
	Pattern       string
	TrailingSlash bool
	Handler       Handler

	Metadata []MiddlewareFunc
	Header   []MiddlewareFunc
	Body     []MiddlewareFunc
	Response []MiddlewareFunc
}

// Use appends fn to the named phase. phase must be one of "metadata",
// "header", "body", "response".
func (rt *Route) Use(phase string, fn MiddlewareFunc) *Route {
	switch phase {
	case "metadata":
		rt.Metadata = append(rt.Metadata, fn)
	case "header":
		rt.Header = append(rt.Header, fn)
	case "body":
		rt.Body = append(rt.Body, fn)
	case "response":
		rt.Response = append(rt.Response, fn)
	}
	return rt
}

// MatchResult is the closed outcome of Router.Match.
type MatchResult uint8

const (
	// NoMatch means no registered pattern admits the path at all;
	// the session replies 404.
	NoMatch MatchResult = iota
	// MethodNotAllowed means the path matched but no route at that
	// leaf admits the request's method; the session replies 405.
	MethodNotAllowed
	// Matched means a route with a matching method was found.
	Matched
)

// Match is the result of a lookup: Result tells which of the three
// outcomes applies, Route and Params are only valid when Result is
// Matched.
type Match struct {
	Result MatchResult
	Route  *Route
	Params map[string]string
}
