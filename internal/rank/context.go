// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"

	"github.com/pdiddy/outline-engine/pkg/types"
)

const (
	// contextParagraphs is the number of paragraphs taken after a heading match.
	contextParagraphs = 3
	// fallbackParagraphs is the number of leading paragraphs used when the
	// heading text is not found on its page.
	fallbackParagraphs = 2
	contextSeparator   = "\n\n"
)

// FindContext returns the representative text for a heading on the given
// 1-based page: the paragraphs that follow the first paragraph mentioning the
// heading, or the page's opening paragraphs when none does. It returns "" when
// the document has no such page or the page has no paragraphs.
func FindContext(doc types.StructuredDocument, page int, heading string) string {
	p, ok := doc.Page(page)
	if !ok || len(p.Paragraphs) == 0 {
		return ""
	}

	if idx, found := findParagraph(p.Paragraphs, heading); found {
		start := min(idx+1, len(p.Paragraphs)-1)
		end := min(start+contextParagraphs, len(p.Paragraphs))
		return strings.Join(p.Paragraphs[start:end], contextSeparator)
	}

	end := min(fallbackParagraphs, len(p.Paragraphs))
	return strings.Join(p.Paragraphs[:end], contextSeparator)
}

// findParagraph returns the index of the first paragraph containing heading,
// compared case-insensitively.
func findParagraph(paragraphs []string, heading string) (int, bool) {
	needle := strings.ToLower(heading)
	for i, p := range paragraphs {
		if strings.Contains(strings.ToLower(p), needle) {
			return i, true
		}
	}
	return -1, false
}
