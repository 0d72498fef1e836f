package markdown

import "testing"

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"# Title", 1},
		{"## Sub", 2},
		{"###### Deep", 6},
		{"####### Too deep", 0},
		{"#NoSpace", 0},
		{"plain", 0},
		{"#", 0},
	}
	for _, tt := range tests {
		if got := HeadingLevel(tt.line); got != tt.want {
			t.Errorf("HeadingLevel(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestFirstHeading(t *testing.T) {
	text, ok := FirstHeading("intro line\n## Setup\nbody")
	if !ok || text != "Setup" {
		t.Errorf("FirstHeading = %q, %v", text, ok)
	}
	if _, ok := FirstHeading("no headings here"); ok {
		t.Error("expected no heading")
	}
}

func TestSectionBounds(t *testing.T) {
	content := "# Top\nintro\n## First\naaa\nbbb\n### Nested\nccc\n## Second\nddd\n"

	start, end, ok := SectionBounds(content, "First", 0)
	if !ok {
		t.Fatal("section not found")
	}
	section := content[start:end]
	if section != "## First\naaa\nbbb\n### Nested\nccc\n" {
		t.Errorf("section = %q", section)
	}

	// Deeper headings stay inside; the next equal-level heading closes it.
	start, end, ok = SectionBounds(content, "second", 2)
	if !ok {
		t.Fatal("case-insensitive match failed")
	}
	if content[start:end] != "## Second\nddd\n" {
		t.Errorf("tail section = %q", content[start:end])
	}

	if _, _, ok := SectionBounds(content, "Missing", 0); ok {
		t.Error("expected no match for absent heading")
	}
	if _, _, ok := SectionBounds(content, "First", 3); ok {
		t.Error("expected no match for wrong level")
	}
}

func TestSectionBoundsRunsToEnd(t *testing.T) {
	content := "## Only\nline one\nline two"
	start, end, ok := SectionBounds(content, "Only", 2)
	if !ok || start != 0 || end != len(content) {
		t.Errorf("bounds = [%d:%d] ok=%v, want [0:%d]", start, end, ok, len(content))
	}
}
