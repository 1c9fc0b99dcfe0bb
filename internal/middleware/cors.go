package middleware

import (
	"strconv"
	"strings"

	"github.com/yourusername/httpcore/internal/http1"
	"github.com/yourusername/httpcore/internal/router"
)

// CORSConfig configures the CORS HEADER-phase middleware.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig mirrors the permissive defaults common across the
// corpus's HTTP frameworks: allow everything, 24h preflight cache.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"*"},
		MaxAge:       86400,
	}
}

// CORS builds a HEADER-phase MiddlewareFunc that may mutate request
// headers and may short-circuit the chain — here it short-circuits a
// successful preflight reply rather than an error response.
func CORS(config CORSConfig) router.MiddlewareFunc {
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"*"}
	}
	if len(config.AllowMethods) == 0 {
		config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}
	}
	if len(config.AllowHeaders) == 0 {
		config.AllowHeaders = []string{"*"}
	}
	if config.MaxAge == 0 {
		config.MaxAge = 86400
	}

	allowMethods := strings.Join(config.AllowMethods, ", ")
	allowHeaders := strings.Join(config.AllowHeaders, ", ")
	exposeHeaders := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	allowAllOrigins := false
	originSet := make(map[string]struct{}, len(config.AllowOrigins))
	for _, o := range config.AllowOrigins {
		if o == "*" {
			allowAllOrigins = true
			break
		}
		originSet[o] = struct{}{}
	}

	return func(req *http1.Request, resp *http1.Response) bool {
		origin, _ := req.Header.At("origin")

		var allowOrigin string
		switch {
		case allowAllOrigins:
			allowOrigin = "*"
		case origin != "":
			if _, ok := originSet[origin]; ok {
				allowOrigin = origin
			}
		}

		if allowOrigin != "" {
			resp.Header.Add("Access-Control-Allow-Origin", allowOrigin)
			if config.AllowCredentials {
				resp.Header.Add("Access-Control-Allow-Credentials", "true")
			}
			if len(config.ExposeHeaders) > 0 {
				resp.Header.Add("Access-Control-Expose-Headers", exposeHeaders)
			}
		}

		if req.Method == "OPTIONS" {
			if allowOrigin != "" {
				resp.Header.Add("Access-Control-Allow-Methods", allowMethods)
				resp.Header.Add("Access-Control-Allow-Headers", allowHeaders)
				resp.Header.Add("Access-Control-Max-Age", maxAge)
			}
			resp.Status = 204 // forbids a body regardless of what else ran
			return false
		}

		return true
	}
}
