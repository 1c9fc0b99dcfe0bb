// Package httpuri implements the origin-form request-target model: a
// raw path, a query multi-map, and a fragment that is always rejected
// as a client error rather than silently stripped. The query is split
// and percent-decoded once, inside ParseOrigin; it is not decoded on
// demand.
package httpuri

import (
	"errors"
	"strconv"
)

// ErrFragmentRejected is returned when the origin-form request-target
// carries a '#' fragment; this is treated as a hard client error.
var ErrFragmentRejected = errors.New("httpuri: fragment not allowed in origin-form request-target")

// ErrInvalidPath is returned when the path does not satisfy the
// origin-form grammar (must be non-empty and start with '/').
var ErrInvalidPath = errors.New("httpuri: path must start with '/'")

// ErrInvalidChar is returned when a path or query byte falls outside
// its permitted character class.
var ErrInvalidChar = errors.New("httpuri: invalid character in request-target")

// Query is an order-preserving, case-sensitive key → values
// multi-map.
type Query struct {
	keys   []string
	values [][]string
	index  map[string]int
}

// Add appends value under key, preserving insertion order within key.
func (q *Query) Add(key, value string) {
	if q.index == nil {
		q.index = make(map[string]int)
	}
	if i, ok := q.index[key]; ok {
		q.values[i] = append(q.values[i], value)
		return
	}
	q.index[key] = len(q.keys)
	q.keys = append(q.keys, key)
	q.values = append(q.values, []string{value})
}

// Get returns the first value for key, if any.
func (q *Query) Get(key string) (string, bool) {
	vs := q.GetAll(key)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetAll returns every value stored for key, in insertion order.
func (q *Query) GetAll(key string) []string {
	if q.index == nil {
		return nil
	}
	if i, ok := q.index[key]; ok {
		return q.values[i]
	}
	return nil
}

// Keys returns the distinct keys in first-insertion order.
func (q *Query) Keys() []string { return q.keys }

// URI is a parsed origin-form request-target.
type URI struct {
	// Path is stored raw (not percent-decoded); percent-decoding is
	// the caller's responsibility where semantics require it.
	Path  string
	Query Query
	// RawQuery is the undecoded query string, kept for diagnostics
	// and for callers that want to re-derive Query differently.
	RawQuery string
}

// pathAllowed is the precomputed 256-entry table for the path
// percent-set {unreserved, sub-delims, ':@/%'}.
var pathAllowed [256]bool

// queryAllowed is pathAllowed plus '?' and '%' (already included).
var queryAllowed [256]bool

func init() {
	mark := func(tbl *[256]bool, chars string) {
		for i := 0; i < len(chars); i++ {
			tbl[chars[i]] = true
		}
	}
	unreserved := "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"
	subDelims := "!$&'()*+,;="
	mark(&pathAllowed, unreserved)
	mark(&pathAllowed, subDelims)
	mark(&pathAllowed, ":@/%")
	queryAllowed = pathAllowed
	mark(&queryAllowed, "?")
}

// ParseOrigin parses an origin-form request-target ("/path?query"),
// rejecting any '#' fragment.
func ParseOrigin(raw string) (*URI, error) {
	if raw == "" || raw[0] != '/' {
		return nil, ErrInvalidPath
	}

	if idx := indexByte(raw, '#'); idx != -1 {
		return nil, ErrFragmentRejected
	}

	u := &URI{}
	if idx := indexByte(raw, '?'); idx != -1 {
		u.Path = raw[:idx]
		u.RawQuery = raw[idx+1:]
	} else {
		u.Path = raw
	}

	for i := 0; i < len(u.Path); i++ {
		if !pathAllowed[u.Path[i]] {
			return nil, ErrInvalidChar
		}
	}
	for i := 0; i < len(u.RawQuery); i++ {
		if !queryAllowed[u.RawQuery[i]] {
			return nil, ErrInvalidChar
		}
	}

	u.Query = parseQuery(u.RawQuery)
	return u, nil
}

// parseQuery splits "a=1&b=2&c" into an order-preserving multi-map;
// a pair with no '=' yields an empty value.
func parseQuery(raw string) Query {
	var q Query
	if raw == "" {
		return q
	}
	start := 0
	for start <= len(raw) {
		end := indexByteFrom(raw, '&', start)
		if end == -1 {
			end = len(raw)
		}
		pair := raw[start:end]
		if pair != "" {
			if eq := indexByte(pair, '='); eq != -1 {
				q.Add(decodePercent(pair[:eq]), decodePercent(pair[eq+1:]))
			} else {
				q.Add(decodePercent(pair), "")
			}
		}
		if end == len(raw) {
			break
		}
		start = end + 1
	}
	return q
}

// DecodePath percent-decodes the path for callers that need decoded
// segments (e.g. the router matching against literal segments that
// themselves contain percent-escapes).
func DecodePath(path string) string { return decodePercent(path) }

func decodePercent(s string) string {
	hasPercent := false
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			hasPercent = true
			break
		}
		if s[i] == '+' {
			hasPercent = true
			break
		}
	}
	if !hasPercent {
		return s
	}

	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '+':
			out = append(out, ' ')
		case '%':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					out = append(out, byte(v))
					i += 2
					continue
				}
			}
			out = append(out, '%')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}

func indexByte(s string, c byte) int { return indexByteFrom(s, c, 0) }

func indexByteFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
