// Package middleware implements the four-phase chain (METADATA,
// HEADER, BODY, RESPONSE) and a handful of concrete middlewares built
// against it.
package middleware

import (
	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
)

// Phase names accepted by Router.Global and Route.Use.
const (
	PhaseMetadata = "metadata"
	PhaseHeader   = "header"
	PhaseBody     = "body"
	PhaseResponse = "response"
)

// Run executes global, then route-local, middleware for phase in
// order, stopping at the first function that returns false. It
// reports whether the chain ran to completion.
func Run(r router.IRouter, rt *router.Route, phase string, req *http1.Request, resp *http1.Response) (completed bool) {
	for _, fn := range r.GlobalChain(phase) {
		if !fn(req, resp) {
			return false
		}
	}
	if rt == nil {
		return true
	}
	for _, fn := range routeChain(rt, phase) {
		if !fn(req, resp) {
			return false
		}
	}
	return true
}

func routeChain(rt *router.Route, phase string) []router.MiddlewareFunc {
	switch phase {
	case PhaseMetadata:
		return rt.Metadata
	case PhaseHeader:
		return rt.Header
	case PhaseBody:
		return rt.Body
	case PhaseResponse:
		return rt.Response
	default:
		return nil
	}
}
