// Package shared holds small string helpers used across the engine.
package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func Capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

// UpperFirst returns the case-normalized first character of s, or "" when
// s is empty. Master index groups are keyed by this.
func UpperFirst(s string) string {
	for _, r := range s {
		return cases.Upper(language.Und).String(string(r))
	}
	return ""
}

func FirstLine(s string) string {
	before, _, ok := strings.Cut(s, "\n")
	if !ok {
		return s
	}
	return before
}

func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// TruncateText truncates text to the specified length.
func TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}

func StringPtr(s string) *string { return &s }

func Int64Ptr(i int64) *int64 { return &i }
