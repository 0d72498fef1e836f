package markdown

import (
	"reflect"
	"testing"
)

func TestExtractReferences(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"inline link", "See [the guide](guide) for more.", []string{"guide"}},
		{"inline with anchor", "See [setup](install#prereqs).", []string{"install"}},
		{"leading slash", "Go to [home](/home).", []string{"home"}},
		{"wiki bare", "Related: [[troubleshooting]]", []string{"troubleshooting"}},
		{"wiki piped", "Related: [[the FAQ|faq]]", []string{"faq"}},
		{"deduplicated", "[a](x) then [b](x) and [[x]]", []string{"x"}},
		{"multiple in order", "[a](first) [[second]] [c](third)", []string{"first", "second", "third"}},
		{"image skipped", "![diagram](diagram-png)", nil},
		{"external skipped", "[site](https://example.com) [mail](mailto:a@b.c)", nil},
		{"pure anchor skipped", "[top](#top)", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractReferences(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractReferences(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestRewriteReferences(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		old, new  string
		want      string
		wantCount int
	}{
		{"inline", "see [A](a) here", "a", "a2", "see [A](a2) here", 1},
		{"inline anchor kept", "see [A](a#top)", "a", "a2", "see [A](a2#top)", 1},
		{"leading slash kept", "see [A](/a)", "a", "a2", "see [A](/a2)", 1},
		{"wiki bare", "see [[a]]", "a", "a2", "see [[a2]]", 1},
		{"wiki piped", "see [[The A|a]]", "a", "a2", "see [[The A|a2]]", 1},
		{"all forms", "[A](a) [[a]] [[x|a]]", "a", "b", "[A](b) [[b]] [[x|b]]", 3},
		{"other slugs untouched", "[A](ab) [[abc]]", "a", "z", "[A](ab) [[abc]]", 0},
		{"plain text untouched", "the letter a stands alone", "a", "z", "the letter a stands alone", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := RewriteReferences(tt.content, tt.old, tt.new)
			if got != tt.want {
				t.Errorf("RewriteReferences() = %q, want %q", got, tt.want)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestRewriteThenExtractRoundTrip(t *testing.T) {
	content := "Intro [A](a) and [[a]] plus [B](b)."
	before := ExtractReferences(content)

	rewritten, _ := RewriteReferences(content, "a", "a2")
	after := ExtractReferences(rewritten)

	if len(after) != len(before) {
		t.Fatalf("reference count changed: %d -> %d", len(before), len(after))
	}
	for _, slug := range after {
		if slug == "a" {
			t.Errorf("stale reference to old slug survived rewrite: %v", after)
		}
	}
}
