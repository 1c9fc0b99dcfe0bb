package http1

// reasonPhrases is the fixed status→reason-phrase table from RFC 9110
// §15 plus a handful of common extension codes. A data table, not a
// switch, per the closed-enumeration style used for Field/Kind/
// KnownMethod elsewhere in this module.
var reasonPhrases = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	416: "Range Not Satisfiable",
	417: "Expectation Failed",
	422: "Unprocessable Entity",
	426: "Upgrade Required",
	428: "Precondition Required",
	429: "Too Many Requests",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
	526: "Invalid SSL Certificate",
}

// ReasonPhrase returns the standard reason phrase for code, or
// "Unknown Status" for anything outside the table.
func ReasonPhrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Unknown Status"
}

// ForbidsBody reports whether a response with this status must carry
// no body regardless of what the handler tried to write: 204, 304,
// and all 1xx codes.
func ForbidsBody(status int) bool {
	if status >= 100 && status <= 199 {
		return true
	}
	return status == 204 || status == 304
}
