package markdown

import "strings"

// HeadingLevel returns the ATX heading level of line, or 0 if the line is
// not a heading.
func HeadingLevel(line string) int {
	if !strings.HasPrefix(line, "#") {
		return 0
	}
	count := 0
	for count < len(line) && line[count] == '#' {
		count++
	}
	if count > 6 || count >= len(line) || line[count] != ' ' {
		return 0
	}
	return count
}

// HeadingText returns the text of a heading line with markers trimmed.
func HeadingText(line string) string {
	level := HeadingLevel(line)
	if level == 0 {
		return ""
	}
	return strings.TrimSpace(line[level:])
}

// FirstHeading returns the text of the first heading in content.
func FirstHeading(content string) (string, bool) {
	for _, line := range strings.Split(content, "\n") {
		if HeadingLevel(line) > 0 {
			return HeadingText(line), true
		}
	}
	return "", false
}

// SectionBounds locates the section introduced by a heading whose text
// matches heading case-insensitively. When level is non-zero the heading
// must also be of that level. The section runs from the heading line to
// the next heading of equal or shallower level, or the end of content.
// Returned offsets are byte positions into content.
func SectionBounds(content, heading string, level int) (start, end int, ok bool) {
	lines := strings.Split(content, "\n")
	offset := 0
	found := false
	foundLevel := 0

	for _, line := range lines {
		lvl := HeadingLevel(line)
		if !found {
			if lvl > 0 && (level == 0 || lvl == level) && strings.EqualFold(HeadingText(line), strings.TrimSpace(heading)) {
				found = true
				foundLevel = lvl
				start = offset
			}
		} else if lvl > 0 && lvl <= foundLevel {
			return start, offset, true
		}
		offset += len(line) + 1
	}
	if found {
		return start, len(content), true
	}
	return 0, 0, false
}
