// Package httphead implements a case-insensitive, order-preserving
// header multi-map: known fields get a closed enumeration and
// per-field validation for O(1) lookup, unknown fields live in a
// parallel case-insensitive map.
package httphead

import (
	"fmt"
	"io"
	"strings"

	"github.com/yourusername/httpcore/internal/httperr"
)

// entry holds every value of one header field as parsed off the wire.
// Case is preserved in each value; the name is stored canonicalized as
// the Field or unknown-map key that locates the entry.
type entry struct {
	values []string
}

// Header is a case-insensitive header multi-map. The zero value is
// usable (ready to Add into).
type Header struct {
	known   [fieldCount]entry
	present [fieldCount]bool

	// unknown holds fields outside the closed enumeration, keyed by
	// canonical lowercase name, insertion-ordered via order.
	unknown map[string]*entry
	order   []string // insertion order of unknown keys
}

// AddResult reports the outcome of Add: success, or a
// Warning/Critical httperr.Error the session must act on.
type AddResult struct {
	Err *httperr.Error
}

// OK reports whether Add succeeded without any finding.
func (r AddResult) OK() bool { return r.Err == nil }

// Add inserts one (name, value) occurrence. Values preserve case and
// internal whitespace after OWS trim; names are matched case
// insensitively via the canonical lowercase key.
func (h *Header) Add(name, value string) AddResult {
	lower := toLowerASCII(name)
	value = trimOWS(value)

	if f := lookupField(lower); f != FieldUnknown {
		return h.addKnown(f, value)
	}
	h.addUnknown(lower, value)
	return AddResult{}
}

func (h *Header) addKnown(f Field, value string) AddResult {
	info := fieldTable[f]

	if info.validate != nil {
		if ok, msg := info.validate(value); !ok {
			return AddResult{Err: httperr.New(httperr.KindHeaderValue, fmt.Sprintf("%s: %s", info.name, msg))}
		}
	}

	if info.singleValued && h.present[f] {
		// A repeated single-valued field is only Critical when the
		// values actually disagree — two identical Content-Length
		// occurrences collapse into one.
		if len(h.known[f].values) == 1 && h.known[f].values[0] == value {
			return AddResult{}
		}
		return AddResult{Err: httperr.New(httperr.KindFraming,
			fmt.Sprintf("%s must not be repeated with a different value", info.name))}
	}

	h.known[f].values = append(h.known[f].values, value)
	h.present[f] = true
	return AddResult{}
}

func (h *Header) addUnknown(lower, value string) {
	if h.unknown == nil {
		h.unknown = make(map[string]*entry, 8)
	}
	e, ok := h.unknown[lower]
	if !ok {
		e = &entry{}
		h.unknown[lower] = e
		h.order = append(h.order, lower)
	}
	e.values = append(e.values, value)
}

// Contains reports whether name has at least one value.
func (h *Header) Contains(name string) bool {
	lower := toLowerASCII(name)
	if f := lookupField(lower); f != FieldUnknown {
		return h.present[f]
	}
	if h.unknown == nil {
		return false
	}
	e, ok := h.unknown[lower]
	return ok && len(e.values) > 0
}

// At returns the first value stored for name: for list-valued fields
// this returns the first occurrence only, use Values for the full
// list.
func (h *Header) At(name string) (string, bool) {
	values := h.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Values returns every value stored for name, in insertion order.
func (h *Header) Values(name string) []string {
	lower := toLowerASCII(name)
	if f := lookupField(lower); f != FieldUnknown {
		if !h.present[f] {
			return nil
		}
		return h.known[f].values
	}
	if h.unknown == nil {
		return nil
	}
	if e, ok := h.unknown[lower]; ok {
		return e.values
	}
	return nil
}

// ContainsValue reports whether token appears among name's
// comma-separated values (e.g. Connection: keep-alive, Upgrade).
func (h *Header) ContainsValue(name, token string, ignoreCase bool) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			part = trimOWS(part)
			if ignoreCase {
				if equalFoldASCII(part, token) {
					return true
				}
			} else if part == token {
				return true
			}
		}
	}
	return false
}

// Erase removes every value stored for name.
func (h *Header) Erase(name string) {
	lower := toLowerASCII(name)
	if f := lookupField(lower); f != FieldUnknown {
		h.known[f] = entry{}
		h.present[f] = false
		return
	}
	if h.unknown == nil {
		return
	}
	if _, ok := h.unknown[lower]; ok {
		delete(h.unknown, lower)
		for i, k := range h.order {
			if k == lower {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
}

// EraseValue removes every value in name's list equal to value
// (case-insensitively when ignoreCase is set), leaving any other
// values intact.
func (h *Header) EraseValue(name, value string, ignoreCase bool) {
	lower := toLowerASCII(name)
	var e *entry
	if f := lookupField(lower); f != FieldUnknown {
		if !h.present[f] {
			return
		}
		e = &h.known[f]
	} else if h.unknown != nil {
		e = h.unknown[lower]
	}
	if e == nil {
		return
	}
	out := e.values[:0]
	for _, v := range e.values {
		match := v == value
		if ignoreCase {
			match = equalFoldASCII(v, value)
		}
		if !match {
			out = append(out, v)
		}
	}
	e.values = out
	if f := lookupField(lower); f != FieldUnknown && len(e.values) == 0 {
		h.present[f] = false
	}
}

// VisitFunc is called once per (name, value) pair during iteration.
type VisitFunc func(name, value string) bool

// VisitAll iterates every header occurrence: known fields first (in
// enumeration order), then unknown fields in insertion order. Order
// is not preserved across the known/unknown partition boundary.
func (h *Header) VisitAll(visit VisitFunc) {
	for f := FieldHost; f < fieldCount; f++ {
		if !h.present[f] {
			continue
		}
		for _, v := range h.known[f].values {
			if !visit(fieldTable[f].name, v) {
				return
			}
		}
	}
	for _, lower := range h.order {
		e := h.unknown[lower]
		if e == nil {
			continue
		}
		for _, v := range e.values {
			if !visit(lower, v) {
				return
			}
		}
	}
}

// Reset clears the header for reuse from a pool.
func (h *Header) Reset() {
	for f := FieldHost; f < fieldCount; f++ {
		h.known[f] = entry{}
		h.present[f] = false
	}
	h.unknown = nil
	h.order = h.order[:0]
}

// WriteTo serializes the header in wire format: "name: v1, v2\r\n" for
// comma-joined list-valued fields, one line per value for Set-Cookie
// (never comma-joined, since that would be ambiguous with Expires'
// embedded comma).
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var n int64
	writeLine := func(name, value string) error {
		parts := []string{name, ": ", value, "\r\n"}
		for _, p := range parts {
			m, err := io.WriteString(w, p)
			n += int64(m)
			if err != nil {
				return err
			}
		}
		return nil
	}

	for f := FieldHost; f < fieldCount; f++ {
		if !h.present[f] {
			continue
		}
		values := h.known[f].values
		if f == FieldSetCookie {
			for _, v := range values {
				if err := writeLine(fieldTable[f].name, v); err != nil {
					return n, err
				}
			}
			continue
		}
		if err := writeLine(fieldTable[f].name, strings.Join(values, ", ")); err != nil {
			return n, err
		}
	}
	for _, lower := range h.order {
		e := h.unknown[lower]
		if e == nil || len(e.values) == 0 {
			continue
		}
		if err := writeLine(lower, strings.Join(e.values, ", ")); err != nil {
			return n, err
		}
	}
	return n, nil
}

// ParseField resolves name to its closed-enumeration Field, useful
// for callers (the session engine, middleware) that want O(1)
// dispatch instead of repeated string comparisons.
func ParseField(name string) Field {
	return lookupField(toLowerASCII(name))
}
