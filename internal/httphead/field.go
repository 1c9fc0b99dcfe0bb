package httphead

import "strconv"

// Field is a closed enumeration of header names the core gives
// first-class, O(1) treatment to. Names outside this set still work
// (they live in the unknown partition) but get no per-field
// validation.
type Field uint8

const (
	FieldUnknown Field = iota
	FieldHost
	FieldContentLength
	FieldContentType
	FieldAuthorization
	FieldConnection
	FieldTransferEncoding
	FieldSetCookie
	FieldCookie
	FieldReferrerPolicy
	FieldUserAgent
	FieldAccept
	FieldAcceptEncoding
	FieldDate
	FieldExpect
	FieldUpgrade
	fieldCount
)

// kind describes how a known field's values combine and validate.
type kind struct {
	name         string // canonical lowercase wire name
	singleValued bool   // at most one entry after parsing
	validate     func(value string) (ok bool, msg string)
}

var fieldTable = [fieldCount]kind{
	FieldHost:             {"host", true, nil},
	FieldContentLength:    {"content-length", true, validateContentLength},
	FieldContentType:      {"content-type", true, nil},
	FieldAuthorization:    {"authorization", true, nil},
	FieldConnection:       {"connection", false, nil},
	FieldTransferEncoding: {"transfer-encoding", false, validateTransferEncoding},
	FieldSetCookie:        {"set-cookie", false, nil},
	FieldCookie:           {"cookie", false, nil},
	FieldReferrerPolicy:   {"referrer-policy", true, validateReferrerPolicy},
	FieldUserAgent:        {"user-agent", true, nil},
	FieldAccept:           {"accept", false, nil},
	FieldAcceptEncoding:   {"accept-encoding", false, nil},
	FieldDate:             {"date", true, nil},
	FieldExpect:           {"expect", true, nil},
	FieldUpgrade:          {"upgrade", false, nil},
}

// nameToField maps a canonical lowercase name to its Field. Built
// once at init; never mutated afterwards.
var nameToField map[string]Field

func init() {
	nameToField = make(map[string]Field, fieldCount)
	for f := FieldHost; f < fieldCount; f++ {
		nameToField[fieldTable[f].name] = f
	}
}

// lookupField resolves a canonicalized (already-lowercased) name to
// its Field, or FieldUnknown if the name isn't in the closed set.
func lookupField(lower string) Field {
	if f, ok := nameToField[lower]; ok {
		return f
	}
	return FieldUnknown
}

// Canonical wire names for the fields callers reference most often
// outside this package (the session engine, the serializer). Kept as
// plain string constants rather than a Field-indexed accessor since
// Header.Add/Contains/Erase already take names, not Fields.
const (
	NameHost             = "host"
	NameContentLength    = "content-length"
	NameContentType      = "content-type"
	NameConnection       = "connection"
	NameTransferEncoding = "transfer-encoding"
	NameSetCookie        = "set-cookie"
)

func validateContentLength(value string) (bool, string) {
	if value == "" {
		return false, "content-length must not be empty"
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false, "content-length must be a non-negative integer"
		}
	}
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return false, "content-length overflows"
	}
	return true, ""
}

func validateTransferEncoding(value string) (bool, string) {
	if !equalFoldASCII(value, "chunked") {
		return false, "only the chunked transfer-coding is supported"
	}
	return true, ""
}

var referrerPolicyValues = map[string]struct{}{
	"no-referrer": {}, "no-referrer-when-downgrade": {}, "origin": {},
	"origin-when-cross-origin": {}, "same-origin": {}, "strict-origin": {},
	"strict-origin-when-cross-origin": {}, "unsafe-url": {}, "": {},
}

func validateReferrerPolicy(value string) (bool, string) {
	if _, ok := referrerPolicyValues[toLowerASCII(value)]; !ok {
		return false, "unknown referrer-policy value"
	}
	return true, ""
}
