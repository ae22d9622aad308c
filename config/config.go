// Package config loads path-to-policy rulesets from YAML files and
// keeps a running resolver up to date when the file changes.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devmarvs/csp"
)

// File is the on-disk policy configuration.
type File struct {
	// Mode selects resolution: "first-match" (default) or "union".
	Mode     string    `yaml:"mode"`
	Policies []Ruleset `yaml:"policies"`
}

// Ruleset is one pattern-set/directive-list pair. Directives are a list
// so their configured order survives into the serialized header.
type Ruleset struct {
	Patterns   []string    `yaml:"patterns"`
	Directives []Directive `yaml:"directives"`
}

// Directive names one directive and its source tokens, e.g.
// directive: img-src, values: ["'self'", "https:"].
type Directive struct {
	Directive string   `yaml:"directive"`
	Values    []string `yaml:"values"`
}

// Load reads and builds a resolver from a YAML file. Any invalid
// pattern, directive name, or source token fails the whole load; a
// misconfigured ruleset is never skipped.
func Load(path string) (*csp.Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	resolver, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return resolver, nil
}

// Parse builds a resolver from YAML config bytes. Unknown fields are
// rejected.
func Parse(data []byte) (*csp.Resolver, error) {
	var file File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Build(file)
}

// Build constructs a resolver from an already-decoded File.
func Build(file File) (*csp.Resolver, error) {
	mode, err := parseMode(file.Mode)
	if err != nil {
		return nil, err
	}

	rulesets := make([]*csp.PathRuleset, 0, len(file.Policies))
	for i, policy := range file.Policies {
		directives := make([]csp.Directive, 0, len(policy.Directives))
		for _, entry := range policy.Directives {
			kind, err := csp.ParseKind(entry.Directive)
			if err != nil {
				return nil, fmt.Errorf("policy %d: %w", i, err)
			}
			values := make([]csp.Value, 0, len(entry.Values))
			for _, token := range entry.Values {
				value, err := csp.ParseValue(token)
				if err != nil {
					return nil, fmt.Errorf("policy %d: directive %s: %w", i, entry.Directive, err)
				}
				values = append(values, value)
			}
			directives = append(directives, csp.NewDirective(kind, values...))
		}

		ruleset, err := csp.NewPathRuleset(policy.Patterns, directives...)
		if err != nil {
			return nil, fmt.Errorf("policy %d: %w", i, err)
		}
		rulesets = append(rulesets, ruleset)
	}

	return csp.NewResolverWithMode(mode, rulesets...), nil
}

func parseMode(mode string) (csp.ResolveMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "first-match":
		return csp.ModeFirstMatch, nil
	case "union":
		return csp.ModeUnion, nil
	}
	return 0, fmt.Errorf("unknown mode %q", mode)
}
