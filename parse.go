package csp

import (
	"fmt"
	"strings"
)

var kindsByToken = func() map[string]DirectiveKind {
	kinds := make(map[string]DirectiveKind, len(kindTokens))
	for kind, token := range kindTokens {
		kinds[token] = DirectiveKind(kind)
	}
	return kinds
}()

var keywordsByName = map[string]Value{
	"none":                   None,
	"self":                   Self,
	"strict-dynamic":         StrictDynamic,
	"report-sample":          ReportSample,
	"unsafe-inline":          UnsafeInline,
	"unsafe-eval":            UnsafeEval,
	"unsafe-hashes":          UnsafeHashes,
	"unsafe-allow-redirects": UnsafeAllowRedirects,
}

// ParseKind parses a directive token such as "img-src".
func ParseKind(token string) (DirectiveKind, error) {
	kind, ok := kindsByToken[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, fmt.Errorf("csp: unknown directive %q", token)
	}
	return kind, nil
}

// ParseValue parses one source token. It accepts the forms this package
// renders ('self', https:, nonce-abc, sha256-xyz, hosts) plus the
// standards-quoted nonce/hash forms ('nonce-abc'). Unknown quoted
// keywords are errors; a bare token ending in ":" is a scheme; anything
// else is a host source. A bare token with a nonce-/sha*- prefix parses
// as that variant, since rendered policies carry them unquoted.
func ParseValue(token string) (Value, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Value{}, fmt.Errorf("csp: empty source value")
	}

	if strings.HasPrefix(token, "'") {
		if len(token) < 2 || !strings.HasSuffix(token, "'") {
			return Value{}, fmt.Errorf("csp: unterminated quoted value %q", token)
		}
		inner := token[1 : len(token)-1]
		if keyword, ok := keywordsByName[strings.ToLower(inner)]; ok {
			return keyword, nil
		}
		if value, ok := parsePrefixed(inner); ok {
			return value, nil
		}
		return Value{}, fmt.Errorf("csp: unknown keyword %q", token)
	}

	if value, ok := parsePrefixed(token); ok {
		return value, nil
	}
	switch token {
	case "https:":
		return SchemeHTTPS, nil
	case "http:":
		return SchemeHTTP, nil
	case "data:":
		return SchemeData, nil
	}
	if strings.HasSuffix(token, ":") {
		return Scheme(token), nil
	}
	return Host(token), nil
}

func parsePrefixed(token string) (Value, bool) {
	for prefix, build := range prefixedValues {
		if rest, ok := strings.CutPrefix(token, prefix); ok && rest != "" {
			return build(rest), true
		}
	}
	return Value{}, false
}

var prefixedValues = map[string]func(string) Value{
	"nonce-":  Nonce,
	"sha256-": SHA256,
	"sha384-": SHA384,
	"sha512-": SHA512,
}

// ParseDirective parses one serialized directive, e.g.
// "img-src 'self' https:".
func ParseDirective(s string) (Directive, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Directive{}, fmt.Errorf("csp: empty directive")
	}
	kind, err := ParseKind(fields[0])
	if err != nil {
		return Directive{}, err
	}
	values := make([]Value, 0, len(fields)-1)
	for _, field := range fields[1:] {
		value, err := ParseValue(field)
		if err != nil {
			return Directive{}, fmt.Errorf("csp: directive %s: %w", fields[0], err)
		}
		values = append(values, value)
	}
	return Directive{Kind: kind, Values: values}, nil
}

// ParsePolicy parses a serialized policy, directives separated by
// semicolons, e.g. "default-src 'self'; img-src 'self' https:".
func ParsePolicy(s string) ([]Directive, error) {
	var directives []Directive
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		directive, err := ParseDirective(part)
		if err != nil {
			return nil, err
		}
		directives = append(directives, directive)
	}
	if len(directives) == 0 {
		return nil, fmt.Errorf("csp: empty policy")
	}
	return directives, nil
}
