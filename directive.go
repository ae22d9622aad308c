// Package csp builds Content-Security-Policy header values from typed
// directives and resolves which policy applies to a request path.
package csp

import "strings"

// DirectiveKind identifies a CSP directive. The zero value is BaseURI.
type DirectiveKind int

// Directive kinds, in canonical order. Serialization sorts directives by
// this order so output never depends on insertion order.
const (
	BaseURI DirectiveKind = iota
	ChildSrc
	ConnectSrc
	DefaultSrc
	// Experimental.
	FencedFrameSrc
	FontSrc
	FormAction
	FrameAncestors
	FrameSrc
	ImgSrc
	ManifestSrc
	MediaSrc
	// Experimental.
	NavigateTo
	ObjectSrc
	PrefetchSrc
	// Deprecated in CSP3; pair with report-uri for older agents.
	ReportTo
	// Deprecated in CSP3; pair with report-to.
	ReportURI
	// Experimental.
	RequireTrustedTypesFor
	Sandbox
	ScriptSrc
	ScriptSrcAttr
	ScriptSrcElem
	StyleSrc
	StyleSrcAttr
	StyleSrcElem
	// Experimental.
	TrustedTypes
	UpgradeInsecureRequests
	WorkerSrc
)

var kindTokens = [...]string{
	BaseURI:                 "base-uri",
	ChildSrc:                "child-src",
	ConnectSrc:              "connect-src",
	DefaultSrc:              "default-src",
	FencedFrameSrc:          "fenced-frame-src",
	FontSrc:                 "font-src",
	FormAction:              "form-action",
	FrameAncestors:          "frame-ancestors",
	FrameSrc:                "frame-src",
	ImgSrc:                  "img-src",
	ManifestSrc:             "manifest-src",
	MediaSrc:                "media-src",
	NavigateTo:              "navigate-to",
	ObjectSrc:               "object-src",
	PrefetchSrc:             "prefetch-src",
	ReportTo:                "report-to",
	ReportURI:               "report-uri",
	RequireTrustedTypesFor:  "require-trusted-types-for",
	Sandbox:                 "sandbox",
	ScriptSrc:               "script-src",
	ScriptSrcAttr:           "script-src-attr",
	ScriptSrcElem:           "script-src-elem",
	StyleSrc:                "style-src",
	StyleSrcAttr:            "style-src-attr",
	StyleSrcElem:            "style-src-elem",
	TrustedTypes:            "trusted-types",
	UpgradeInsecureRequests: "upgrade-insecure-requests",
	WorkerSrc:               "worker-src",
}

// Valid reports whether the kind is a known directive.
func (k DirectiveKind) Valid() bool {
	return k >= 0 && int(k) < len(kindTokens)
}

// String returns the wire token, e.g. "img-src".
func (k DirectiveKind) String() string {
	if !k.Valid() {
		return ""
	}
	return kindTokens[k]
}

// Directive pairs a directive kind with its source values. Values may be
// empty; such a directive renders as the bare kind token.
type Directive struct {
	Kind   DirectiveKind
	Values []Value
}

// NewDirective builds a directive from a kind and values.
func NewDirective(kind DirectiveKind, values ...Value) Directive {
	return Directive{Kind: kind, Values: values}
}

// DefaultSelfDirective returns a default-src 'self' directive.
func DefaultSelfDirective() Directive {
	return Directive{Kind: DefaultSrc, Values: []Value{Self}}
}

// String renders the directive as it appears in the header, values in
// their configured order.
func (d Directive) String() string {
	if len(d.Values) == 0 {
		return d.Kind.String()
	}
	var b strings.Builder
	b.WriteString(d.Kind.String())
	for _, value := range d.Values {
		b.WriteByte(' ')
		b.WriteString(value.String())
	}
	return b.String()
}
