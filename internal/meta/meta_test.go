package meta

import (
	"reflect"
	"strings"
	"testing"
)

const sample = `---
slug: setup-guide
section: ops
status: draft
keywords:
  - install
  - configure
campaign: winter-arc
---

# Setup

Body text.
`

func TestParse(t *testing.T) {
	p, body := Parse(sample)
	if p == nil {
		t.Fatal("expected a preamble")
	}
	if got := p.Slug(); got != "setup-guide" {
		t.Errorf("Slug() = %q", got)
	}
	if got := p.Section(); got != "ops" {
		t.Errorf("Section() = %q", got)
	}
	if got := p.Status(); got != "draft" {
		t.Errorf("Status() = %q", got)
	}
	if got := p.Keywords(); !reflect.DeepEqual(got, []string{"install", "configure"}) {
		t.Errorf("Keywords() = %v", got)
	}
	if !strings.HasPrefix(body, "# Setup") {
		t.Errorf("body = %q", body)
	}
}

func TestParseNoPreamble(t *testing.T) {
	for _, content := range []string{"plain text", "", "--- not a fence", "---\nunterminated"} {
		p, body := Parse(content)
		if p != nil {
			t.Errorf("Parse(%q): unexpected preamble", content)
		}
		if body != content {
			t.Errorf("Parse(%q): body = %q", content, body)
		}
	}
}

func TestRoundTripUnknownKeys(t *testing.T) {
	p, body := Parse(sample)
	if p == nil {
		t.Fatal("expected a preamble")
	}
	if got, ok := p.GetString("campaign"); !ok || got != "winter-arc" {
		t.Fatalf("unknown key lost on parse: %q %v", got, ok)
	}

	rendered := p.Render(body)
	p2, body2 := Parse(rendered)
	if p2 == nil {
		t.Fatal("re-parse lost the preamble")
	}
	if got, _ := p2.GetString("campaign"); got != "winter-arc" {
		t.Errorf("unknown key lost on round trip: %q", got)
	}
	if p2.Slug() != "setup-guide" {
		t.Errorf("known key lost on round trip")
	}
	if body2 != body {
		t.Errorf("body changed on round trip: %q vs %q", body2, body)
	}
}

func TestKeywordsCommaForm(t *testing.T) {
	p, _ := Parse("---\nkeywords: alpha, beta , gamma\n---\nbody")
	if got := p.Keywords(); !reflect.DeepEqual(got, []string{"alpha", "beta", "gamma"}) {
		t.Errorf("Keywords() = %v", got)
	}
}

func TestSet(t *testing.T) {
	p, body := Parse("---\nslug: old\n---\nbody")
	p.Set(KeySlug, "new")
	p.Set("extra", "added")

	p2, _ := Parse(p.Render(body))
	if p2.Slug() != "new" {
		t.Errorf("Set did not replace slug: %q", p2.Slug())
	}
	if got, _ := p2.GetString("extra"); got != "added" {
		t.Errorf("Set did not append key: %q", got)
	}
}

func TestStrip(t *testing.T) {
	if got := Strip(sample); strings.Contains(got, "slug:") {
		t.Errorf("Strip left preamble content: %q", got)
	}
	if got := Strip("no preamble"); got != "no preamble" {
		t.Errorf("Strip(%q) = %q", "no preamble", got)
	}
}
