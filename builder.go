package csp

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Builder accumulates directives and serializes them into one
// Content-Security-Policy header value. Values are deduplicated per
// directive and the output is sorted by directive then value, so the
// result is independent of call order. Construct with NewBuilder, chain
// Add calls, then call Finish once. A Builder is not safe for
// concurrent use; build a fresh one per policy.
type Builder struct {
	directives map[DirectiveKind][]Value
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[DirectiveKind][]Value)}
}

// Add appends values to a directive, skipping any value already present
// for that directive. Adding with no values records the bare directive.
// Add is idempotent for identical calls.
func (b *Builder) Add(kind DirectiveKind, values ...Value) *Builder {
	if b.directives == nil {
		b.directives = make(map[DirectiveKind][]Value)
	}
	if _, ok := b.directives[kind]; !ok {
		b.directives[kind] = nil
	}
	for _, value := range values {
		if containsValue(b.directives[kind], value) {
			continue
		}
		b.directives[kind] = append(b.directives[kind], value)
	}
	return b
}

// AddDirective merges a directive into the builder.
func (b *Builder) AddDirective(directive Directive) *Builder {
	return b.Add(directive.Kind, directive.Values...)
}

// Finish serializes the accumulated directives: directives sorted by
// kind, values sorted by their total order, values space-joined and
// directives joined with "; ". It fails only when the result is not a
// valid HTTP header field value, which means a caller supplied a value
// containing control bytes.
func (b *Builder) Finish() (string, error) {
	kinds := make([]DirectiveKind, 0, len(b.directives))
	for kind := range b.directives {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		values := make([]Value, len(b.directives[kind]))
		copy(values, b.directives[kind])
		sort.Slice(values, func(i, j int) bool { return values[i].Less(values[j]) })
		parts = append(parts, Directive{Kind: kind, Values: values}.String())
	}

	header := strings.Join(parts, "; ")
	if !httpguts.ValidHeaderFieldValue(header) {
		return "", fmt.Errorf("csp: policy %q is not a valid header value", header)
	}
	return header, nil
}

// MustFinish is Finish for policies known to be clean; it panics on the
// header-value error.
func (b *Builder) MustFinish() string {
	header, err := b.Finish()
	if err != nil {
		panic(err)
	}
	return header
}

func containsValue(values []Value, value Value) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
