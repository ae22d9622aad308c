package csp

import (
	"sync"
	"testing"
)

func TestRulesetMatches(t *testing.T) {
	ruleset, err := NewPathRuleset([]string{"^/hello$"}, DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	if !ruleset.Matches("/hello") {
		t.Fatalf("expected /hello to match")
	}
	if ruleset.Matches("/other") {
		t.Fatalf("expected /other not to match")
	}

	header, err := ruleset.Header()
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if header != "default-src 'self'" {
		t.Fatalf("expected %q, got %q", "default-src 'self'", header)
	}
}

func TestRulesetAnyPatternMatches(t *testing.T) {
	ruleset, err := NewPathRuleset([]string{"^/app", "^/admin"}, DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	for _, path := range []string{"/app/home", "/admin/users"} {
		if !ruleset.Matches(path) {
			t.Errorf("expected %q to match", path)
		}
	}
	if ruleset.Matches("/public") {
		t.Fatalf("expected /public not to match")
	}
}

func TestRulesetEmptyPatternsNeverMatch(t *testing.T) {
	ruleset, err := NewPathRuleset(nil, DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	for _, path := range []string{"", "/", "/anything", ".*"} {
		if ruleset.Matches(path) {
			t.Errorf("expected %q not to match", path)
		}
	}
}

func TestRulesetInvalidPattern(t *testing.T) {
	if _, err := NewPathRuleset([]string{"["}); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestRulesetHeaderPreservesDirectiveOrder(t *testing.T) {
	ruleset, err := NewPathRuleset(
		[]string{"^/"},
		NewDirective(ScriptSrc, Self, UnsafeInline),
		DefaultSelfDirective(),
	)
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	header, err := ruleset.Header()
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	expected := "script-src 'self' 'unsafe-inline'; default-src 'self'"
	if header != expected {
		t.Fatalf("expected %q, got %q", expected, header)
	}
}

func TestRulesetDefaultAllSelf(t *testing.T) {
	ruleset := RulesetDefaultAllSelf()
	for _, path := range []string{"/", "/anything", ""} {
		if !ruleset.Matches(path) {
			t.Errorf("expected %q to match", path)
		}
	}
}

func TestResolverFirstMatch(t *testing.T) {
	admin, err := NewPathRuleset([]string{"^/admin"}, NewDirective(DefaultSrc, None))
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	app, err := NewPathRuleset([]string{"^/"}, DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	resolver := NewResolver(admin, app)

	header, matched, err := resolver.Header("/admin/users")
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if !matched {
		t.Fatalf("expected a match")
	}
	if header != "default-src 'none'" {
		t.Fatalf("expected %q, got %q", "default-src 'none'", header)
	}

	header, matched, err = resolver.Header("/home")
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if !matched {
		t.Fatalf("expected a match")
	}
	if header != "default-src 'self'" {
		t.Fatalf("expected %q, got %q", "default-src 'self'", header)
	}
}

func TestResolverNoMatch(t *testing.T) {
	admin, err := RulesetDefaultSelf("^/admin")
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	resolver := NewResolver(admin)

	header, matched, err := resolver.Header("/public")
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if matched {
		t.Fatalf("expected no match, got %q", header)
	}
	if header != "" {
		t.Fatalf("expected empty header, got %q", header)
	}
}

func TestResolverEmpty(t *testing.T) {
	resolver := NewResolver()
	if _, matched, _ := resolver.Header("/"); matched {
		t.Fatalf("expected no match with zero rulesets")
	}
}

func TestResolverUnion(t *testing.T) {
	base, err := NewPathRuleset([]string{"^/"}, DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	scripts, err := NewPathRuleset([]string{"^/app"}, NewDirective(ScriptSrc, Self), DefaultSelfDirective())
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	resolver := NewResolverWithMode(ModeUnion, base, scripts)

	header, matched, err := resolver.Header("/app/index")
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	if !matched {
		t.Fatalf("expected a match")
	}
	expected := "default-src 'self'; script-src 'self'"
	if header != expected {
		t.Fatalf("expected %q, got %q", expected, header)
	}
}

func TestResolverConcurrent(t *testing.T) {
	ruleset, err := RulesetDefaultSelf("^/app")
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	resolver := NewResolver(ruleset)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				header, matched, err := resolver.Header("/app")
				if err != nil || !matched || header != "default-src 'self'" {
					t.Errorf("unexpected result: %q %v %v", header, matched, err)
					return
				}
				if _, matched, _ := resolver.Header("/miss"); matched {
					t.Errorf("unexpected match")
					return
				}
			}
		}()
	}
	wg.Wait()
}
