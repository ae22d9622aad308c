package csp

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// PathRuleset pairs a set of path patterns with the directives to apply
// when a path matches. Patterns are compiled at construction and the
// ruleset is immutable afterwards, so it is safe to share across
// concurrent request handlers.
type PathRuleset struct {
	patterns   []*regexp.Regexp
	directives []Directive
}

// NewPathRuleset compiles the patterns and builds a ruleset. An invalid
// pattern is a configuration error and fails construction. A ruleset
// with no patterns is valid but never matches.
func NewPathRuleset(patterns []string, directives ...Directive) (*PathRuleset, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("csp: compile pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return &PathRuleset{patterns: compiled, directives: directives}, nil
}

// RulesetDefaultSelf builds a ruleset emitting default-src 'self' for
// the given patterns.
func RulesetDefaultSelf(patterns ...string) (*PathRuleset, error) {
	return NewPathRuleset(patterns, DefaultSelfDirective())
}

// RulesetDefaultAllSelf builds a ruleset emitting default-src 'self'
// for every path.
func RulesetDefaultAllSelf() *PathRuleset {
	return &PathRuleset{
		patterns:   []*regexp.Regexp{regexp.MustCompile(`.*`)},
		directives: []Directive{DefaultSelfDirective()},
	}
}

// Matches reports whether any pattern matches the path.
func (rs *PathRuleset) Matches(path string) bool {
	for _, pattern := range rs.patterns {
		if pattern.MatchString(path) {
			return true
		}
	}
	return false
}

// Directives returns the ruleset's directives in configured order. The
// returned slice is shared; callers must not mutate it.
func (rs *PathRuleset) Directives() []Directive {
	return rs.directives
}

// Header serializes the directives in configured order, joined with
// "; ". It fails only when the result is not a valid HTTP header field
// value.
func (rs *PathRuleset) Header() (string, error) {
	parts := make([]string, 0, len(rs.directives))
	for _, directive := range rs.directives {
		parts = append(parts, directive.String())
	}
	header := strings.Join(parts, "; ")
	if !httpguts.ValidHeaderFieldValue(header) {
		return "", fmt.Errorf("csp: policy %q is not a valid header value", header)
	}
	return header, nil
}
