// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// terminalSuffixes mark a line that ends a sentence.
var terminalSuffixes = []string{".", "!", "?", `:"`, `."`}

// SegmentParagraphs groups a page's trimmed, non-empty text lines into
// paragraphs. A new paragraph starts only when the previous line and the new
// line are both longer than longLine characters, the previous line has no
// terminal punctuation, and the new line does not begin in lowercase. Every
// other line continues the current paragraph, so the heuristic errs toward
// under-splitting. Lines of a paragraph are joined with a single space.
func SegmentParagraphs(lines []string, longLine int) []string {
	var (
		paragraphs []string
		current    []string
	)

	for _, line := range lines {
		if len(current) == 0 {
			current = append(current, line)
			continue
		}

		last := current[len(current)-1]
		if isBoundary(last, line, longLine) {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = []string{line}
			continue
		}
		current = append(current, line)
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

func isBoundary(prev, next string, longLine int) bool {
	if utf8.RuneCountInString(prev) <= longLine || utf8.RuneCountInString(next) <= longLine {
		return false
	}
	for _, suffix := range terminalSuffixes {
		if strings.HasSuffix(prev, suffix) {
			return false
		}
	}
	first, _ := utf8.DecodeRuneInString(next)
	return !unicode.IsLower(first)
}

// SegmentParagraphs applies the package function with the builder's LongLine threshold.
func (b *Builder) SegmentParagraphs(lines []string) []string {
	return SegmentParagraphs(lines, b.cfg.LongLine)
}
