package csp

type valueKind int

// Variant ranks double as the value sort order.
const (
	valueNone valueKind = iota
	valueSelf
	valueStrictDynamic
	valueReportSample
	valueUnsafeInline
	valueUnsafeEval
	valueUnsafeHashes
	valueUnsafeAllowRedirects
	valueHost
	valueSchemeHTTPS
	valueSchemeHTTP
	valueSchemeData
	valueSchemeOther
	valueNonce
	valueSHA256
	valueSHA384
	valueSHA512
)

// Value is one CSP source value. Values are comparable: two values are
// equal when their variant and payload are equal, which is the equality
// the builder dedups by.
type Value struct {
	kind  valueKind
	param string
}

// Keyword and scheme source values.
var (
	None          = Value{kind: valueNone}
	Self          = Value{kind: valueSelf}
	StrictDynamic = Value{kind: valueStrictDynamic}
	ReportSample  = Value{kind: valueReportSample}
	UnsafeInline  = Value{kind: valueUnsafeInline}
	UnsafeEval    = Value{kind: valueUnsafeEval}
	UnsafeHashes  = Value{kind: valueUnsafeHashes}
	// Experimental.
	UnsafeAllowRedirects = Value{kind: valueUnsafeAllowRedirects}
	SchemeHTTPS          = Value{kind: valueSchemeHTTPS}
	SchemeHTTP           = Value{kind: valueSchemeHTTP}
	SchemeData           = Value{kind: valueSchemeData}
)

// Host returns a host source value, rendered verbatim.
func Host(host string) Value {
	return Value{kind: valueHost, param: host}
}

// Scheme returns a scheme source other than the https/http/data
// shorthands. The value is rendered verbatim and should include the
// trailing colon, e.g. "blob:".
func Scheme(scheme string) Value {
	return Value{kind: valueSchemeOther, param: scheme}
}

// Nonce returns a nonce source. The value is the base64 nonce only;
// rendering adds the "nonce-" prefix and no surrounding quotes.
func Nonce(nonce string) Value {
	return Value{kind: valueNonce, param: nonce}
}

// SHA256 returns a sha256 hash source, rendered as "sha256-<digest>".
func SHA256(digest string) Value {
	return Value{kind: valueSHA256, param: digest}
}

// SHA384 returns a sha384 hash source, rendered as "sha384-<digest>".
func SHA384(digest string) Value {
	return Value{kind: valueSHA384, param: digest}
}

// SHA512 returns a sha512 hash source, rendered as "sha512-<digest>".
func SHA512(digest string) Value {
	return Value{kind: valueSHA512, param: digest}
}

// String renders the wire token. Keywords carry their single quotes;
// nonce and hash sources render unquoted ("nonce-abc", "sha256-xyz"),
// the convention this package's consumers already depend on.
func (v Value) String() string {
	switch v.kind {
	case valueNone:
		return "'none'"
	case valueSelf:
		return "'self'"
	case valueStrictDynamic:
		return "'strict-dynamic'"
	case valueReportSample:
		return "'report-sample'"
	case valueUnsafeInline:
		return "'unsafe-inline'"
	case valueUnsafeEval:
		return "'unsafe-eval'"
	case valueUnsafeHashes:
		return "'unsafe-hashes'"
	case valueUnsafeAllowRedirects:
		return "'unsafe-allow-redirects'"
	case valueSchemeHTTPS:
		return "https:"
	case valueSchemeHTTP:
		return "http:"
	case valueSchemeData:
		return "data:"
	case valueHost, valueSchemeOther:
		return v.param
	case valueNonce:
		return "nonce-" + v.param
	case valueSHA256:
		return "sha256-" + v.param
	case valueSHA384:
		return "sha384-" + v.param
	case valueSHA512:
		return "sha512-" + v.param
	}
	return ""
}

// Less reports whether v sorts before other: by variant rank, then by
// payload. This is the total order serialization uses.
func (v Value) Less(other Value) bool {
	if v.kind != other.kind {
		return v.kind < other.kind
	}
	return v.param < other.param
}
