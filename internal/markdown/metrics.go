package markdown

import "strings"

// WordCount counts the words in the plain-text rendering of content.
func WordCount(content string) int {
	return len(strings.Fields(PlainText(content)))
}

// Size returns the content size in bytes.
func Size(content string) int {
	return len(content)
}
