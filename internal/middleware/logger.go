package middleware

import (
	"log"
	"time"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
)

// LoggerConfig configures the request logger.
type LoggerConfig struct {
	Output *log.Logger
}

// Logger returns a RESPONSE-phase middleware that logs method, path,
// status, and latency once the handler has produced a response but
// before the serializer emits the first byte.
func Logger(config LoggerConfig) router.MiddlewareFunc {
	out := config.Output
	if out == nil {
		out = log.Default()
	}

	return func(req *http1.Request, resp *http1.Response) bool {
		path := ""
		if req.URI != nil {
			path = req.URI.Path
		}
		out.Printf("%s %s %d %s", req.Method, path, resp.Status, req.Elapsed())
		return true
	}
}

// StartClock is a METADATA-phase middleware that stamps the request
// with its arrival time so Logger can compute latency. Register it
// as the first global METADATA middleware.
func StartClock() router.MiddlewareFunc {
	return func(req *http1.Request, resp *http1.Response) bool {
		req.MarkStarted(time.Now())
		return true
	}
}
