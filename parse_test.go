package csp

import "testing"

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("img-src")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if kind != ImgSrc {
		t.Fatalf("expected ImgSrc, got %v", kind)
	}
	if _, err := ParseKind("not-a-directive"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		token string
		want  Value
	}{
		{"'self'", Self},
		{"'none'", None},
		{"'unsafe-inline'", UnsafeInline},
		{"'strict-dynamic'", StrictDynamic},
		{"https:", SchemeHTTPS},
		{"http:", SchemeHTTP},
		{"data:", SchemeData},
		{"blob:", Scheme("blob:")},
		{"example.com", Host("example.com")},
		{"*.example.com", Host("*.example.com")},
		{"nonce-abc123", Nonce("abc123")},
		{"sha256-xyz", SHA256("xyz")},
		{"sha384-xyz", SHA384("xyz")},
		{"sha512-xyz", SHA512("xyz")},
		// Standards-quoted forms load too, even though rendering
		// emits them unquoted.
		{"'nonce-abc123'", Nonce("abc123")},
		{"'sha256-xyz'", SHA256("xyz")},
	}
	for _, tc := range cases {
		got, err := ParseValue(tc.token)
		if err != nil {
			t.Errorf("parse %q: %v", tc.token, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parse %q: expected %q, got %q", tc.token, tc.want, got)
		}
	}
}

func TestParseValueErrors(t *testing.T) {
	for _, token := range []string{"", "  ", "'self", "'not-a-keyword'", "'"} {
		if _, err := ParseValue(token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}

func TestParseDirective(t *testing.T) {
	directive, err := ParseDirective("img-src 'self' https:")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if directive.Kind != ImgSrc {
		t.Fatalf("expected ImgSrc, got %v", directive.Kind)
	}
	if len(directive.Values) != 2 || directive.Values[0] != Self || directive.Values[1] != SchemeHTTPS {
		t.Fatalf("unexpected values: %v", directive.Values)
	}

	bare, err := ParseDirective("upgrade-insecure-requests")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bare.Kind != UpgradeInsecureRequests || len(bare.Values) != 0 {
		t.Fatalf("unexpected directive: %+v", bare)
	}
}

func TestParsePolicyRoundTrip(t *testing.T) {
	policy := "default-src 'self'; img-src 'self' https:; script-src nonce-abc"
	directives, err := ParsePolicy(policy)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	builder := NewBuilder()
	for _, directive := range directives {
		builder.AddDirective(directive)
	}
	header, err := builder.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if header != policy {
		t.Fatalf("expected %q, got %q", policy, header)
	}
}

func TestParsePolicyErrors(t *testing.T) {
	for _, policy := range []string{"", " ; ", "bogus-src 'self'", "img-src 'bogus'"} {
		if _, err := ParsePolicy(policy); err == nil {
			t.Errorf("expected error for %q", policy)
		}
	}
}
