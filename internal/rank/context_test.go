// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/outline-engine/pkg/types"
)

func pagesDoc(pages ...types.PageText) types.StructuredDocument {
	return types.StructuredDocument{Pages: pages}
}

func TestFindContext(t *testing.T) {
	paras := []string{"P0 intro", "Nightlife in Nice is lively", "P2", "P3", "P4", "P5"}
	d := pagesDoc(
		types.PageText{PageNum: 1, Paragraphs: paras},
		types.PageText{PageNum: 2, Paragraphs: []string{"Only one"}},
		types.PageText{PageNum: 3, Paragraphs: []string{}},
		types.PageText{PageNum: 4, Paragraphs: []string{"A", "B", "Closing remarks"}},
	)

	tests := []struct {
		name    string
		page    int
		heading string
		want    string
	}{
		{name: "three paragraphs after the match", page: 1, heading: "NIGHTLIFE IN NICE", want: "P2\n\nP3\n\nP4"},
		{name: "not found falls back to first two", page: 1, heading: "Museums", want: "P0 intro\n\nNightlife in Nice is lively"},
		{name: "fallback with a single paragraph", page: 2, heading: "Museums", want: "Only one"},
		{name: "match on the only paragraph returns it", page: 2, heading: "only", want: "Only one"},
		{name: "match on the last paragraph is clamped", page: 4, heading: "closing", want: "Closing remarks"},
		{name: "window stops at the end of the page", page: 4, heading: "A", want: "B\n\nClosing remarks"},
		{name: "page without paragraphs", page: 3, heading: "Anything", want: ""},
		{name: "missing page", page: 9, heading: "Anything", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindContext(d, tt.page, tt.heading))
		})
	}
}

func TestFindParagraph(t *testing.T) {
	idx, ok := findParagraph([]string{"alpha", "Beta gamma", "beta"}, "BETA")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = findParagraph(nil, "beta")
	assert.False(t, ok)
}
