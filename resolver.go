package csp

// ResolveMode selects how a Resolver combines matching rulesets.
type ResolveMode int

const (
	// ModeFirstMatch returns the first matching ruleset in configured
	// order. This is the default.
	ModeFirstMatch ResolveMode = iota
	// ModeUnion merges the directives of every matching ruleset into
	// one deduplicated, canonically ordered policy.
	ModeUnion
)

// Resolver holds an ordered collection of rulesets and answers which
// policy applies to a request path. Immutable after construction and
// safe for concurrent use.
type Resolver struct {
	rulesets []*PathRuleset
	mode     ResolveMode
}

// NewResolver builds a first-match resolver over the rulesets.
func NewResolver(rulesets ...*PathRuleset) *Resolver {
	return &Resolver{rulesets: rulesets}
}

// NewResolverWithMode builds a resolver with an explicit mode.
func NewResolverWithMode(mode ResolveMode, rulesets ...*PathRuleset) *Resolver {
	return &Resolver{rulesets: rulesets, mode: mode}
}

// Mode returns the resolver's mode.
func (r *Resolver) Mode() ResolveMode {
	return r.mode
}

// Resolve returns the first ruleset matching the path, in configured
// order. The second result is false when no ruleset matches.
func (r *Resolver) Resolve(path string) (*PathRuleset, bool) {
	for _, ruleset := range r.rulesets {
		if ruleset.Matches(path) {
			return ruleset, true
		}
	}
	return nil, false
}

// ResolveAll returns every ruleset matching the path, in configured
// order.
func (r *Resolver) ResolveAll(path string) []*PathRuleset {
	var matched []*PathRuleset
	for _, ruleset := range r.rulesets {
		if ruleset.Matches(path) {
			matched = append(matched, ruleset)
		}
	}
	return matched
}

// Header resolves the path and serializes the applicable policy. The
// bool reports whether any policy applies; no match is a normal outcome,
// not an error. In ModeFirstMatch the matching ruleset serializes in its
// configured directive order; in ModeUnion all matching rulesets merge
// through a Builder.
func (r *Resolver) Header(path string) (string, bool, error) {
	if r.mode == ModeUnion {
		matched := r.ResolveAll(path)
		if len(matched) == 0 {
			return "", false, nil
		}
		builder := NewBuilder()
		for _, ruleset := range matched {
			for _, directive := range ruleset.Directives() {
				builder.AddDirective(directive)
			}
		}
		header, err := builder.Finish()
		if err != nil {
			return "", true, err
		}
		return header, true, nil
	}

	ruleset, ok := r.Resolve(path)
	if !ok {
		return "", false, nil
	}
	header, err := ruleset.Header()
	if err != nil {
		return "", true, err
	}
	return header, true, nil
}
