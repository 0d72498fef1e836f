package markdown

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStats summarizes a line-based diff between two revisions.
type DiffStats struct {
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
	CharDelta    int `json:"char_delta"`
}

// Diff computes line-based diff statistics between before and after.
func Diff(before, after string) DiffStats {
	stats := DiffStats{CharDelta: len(after) - len(before)}
	if before == after {
		return stats
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.LinesAdded += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			stats.LinesRemoved += countLines(d.Text)
		}
	}
	return stats
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
