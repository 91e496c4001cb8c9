// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// HeadingLevel is the outline label assigned to a heading ("H1".."H4").
type HeadingLevel string

const (
	LevelH1 HeadingLevel = "H1"
	LevelH2 HeadingLevel = "H2"
	LevelH3 HeadingLevel = "H3"
	LevelH4 HeadingLevel = "H4"
)

// OutlineEntry is one heading in a document outline.
type OutlineEntry struct {
	// Level is the heading tier, H1 being the largest font size.
	Level HeadingLevel `json:"level" yaml:"level"`

	// Text is the normalized heading text.
	Text string `json:"text" yaml:"text"`

	// Page is the 1-based page number.
	Page int `json:"page" yaml:"page"`
}

// PageText holds the paragraphs inferred for a single page.
type PageText struct {
	// PageNum is the 1-based page number.
	PageNum int `json:"page_num" yaml:"page_num"`

	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

// StructuredDocument is the persisted result of structure inference for one
// source document. It is read-only input to the ranking step.
type StructuredDocument struct {
	Title   string         `json:"title" yaml:"title"`
	Outline []OutlineEntry `json:"outline" yaml:"outline"`
	Pages   []PageText     `json:"pages" yaml:"pages"`
}

// Page returns the PageText with the given 1-based number.
func (d StructuredDocument) Page(num int) (PageText, bool) {
	for _, p := range d.Pages {
		if p.PageNum == num {
			return p, true
		}
	}
	return PageText{}, false
}
