// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outline-engine/pkg/types"
)

func headingTexts(hs []Heading) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Text
	}
	return out
}

func TestDetectHeadings_Filters(t *testing.T) {
	pages := []types.SpanPage{
		page(
			textLine("Introduction", 18, 72, 300, 60),
			textLine("Go", 18, 72, 100, 90),
			textLine("2024", 18, 72, 120, 120),
			textLine("The", 18, 72, 120, 150),
			textLine("Body text at normal size", 12, 72, 400, 180),
			textLine("Slightly larger", 13.5, 72, 400, 210),
		),
		page(
			textLine("INTRODUCTION", 20, 72, 300, 60),
			textLine("Methods", 14, 72, 300, 90),
		),
	}

	got := testBuilder().DetectHeadings(pages, 12)

	assert.Equal(t, []string{"Introduction", "Methods"}, headingTexts(got))
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Page)
	assert.Equal(t, 18.0, got[0].Size)
	assert.Equal(t, 1, got[1].Page)
	assert.Equal(t, types.BBox{72, 90, 300, 104}, got[1].BBox)
}

func TestDetectHeadings_SeenBeforeSizeCheck(t *testing.T) {
	pages := []types.SpanPage{
		page(
			textLine("Overview", 12, 72, 300, 60),
			textLine("Overview", 20, 72, 300, 90),
		),
	}
	assert.Empty(t, testBuilder().DetectHeadings(pages, 12))
}

func TestDetectHeadings_UsesAverageSize(t *testing.T) {
	line := types.Line{Spans: []types.Span{
		span("Mixed", 16, 72, 60, 120, 76),
		span("heading", 10, 120, 60, 200, 70),
	}}
	assert.Empty(t, testBuilder().DetectHeadings([]types.SpanPage{page(line)}, 12))
}

func TestDetectHeadings_StateDoesNotLeak(t *testing.T) {
	b := testBuilder()
	pages := []types.SpanPage{page(textLine("Results", 18, 72, 300, 60))}

	assert.Len(t, b.DetectHeadings(pages, 12), 1)
	assert.Len(t, b.DetectHeadings(pages, 12), 1)
}

func TestClusterHeadings_LevelsFollowSize(t *testing.T) {
	headings := []Heading{
		{Text: "a", Size: 14, Page: 0, BBox: types.BBox{0, 10, 0, 0}},
		{Text: "b", Size: 24, Page: 0, BBox: types.BBox{0, 20, 0, 0}},
		{Text: "c", Size: 18, Page: 0, BBox: types.BBox{0, 30, 0, 0}},
		{Text: "d", Size: 24, Page: 0, BBox: types.BBox{0, 40, 0, 0}},
	}

	got := ClusterHeadings(headings, 4)

	levels := map[string]types.HeadingLevel{}
	for _, h := range got {
		levels[h.Text] = h.Level
	}
	assert.Equal(t, types.LevelH1, levels["b"])
	assert.Equal(t, types.LevelH1, levels["d"])
	assert.Equal(t, types.LevelH2, levels["c"])
	assert.Equal(t, types.LevelH3, levels["a"])
}

func TestClusterHeadings_CapsLevels(t *testing.T) {
	var headings []Heading
	for i := 0; i < 7; i++ {
		headings = append(headings, Heading{
			Text: fmt.Sprintf("h%d", i),
			Size: float64(30 - 2*i),
			BBox: types.BBox{0, float64(i * 10), 0, 0},
		})
	}

	got := ClusterHeadings(headings, 4)

	distinct := map[types.HeadingLevel]bool{}
	for _, h := range got {
		distinct[h.Level] = true
	}
	assert.Len(t, distinct, 4)
	assert.Equal(t, types.LevelH4, got[3].Level)
	assert.Equal(t, types.LevelH4, got[6].Level)

	// Larger sizes never receive a coarser level than smaller ones.
	for _, x := range got {
		for _, y := range got {
			if x.Size > y.Size {
				assert.LessOrEqual(t, string(x.Level), string(y.Level))
			}
		}
	}
}

func TestClusterHeadings_SortsByPageThenTop(t *testing.T) {
	headings := []Heading{
		{Text: "p2 low", Size: 18, Page: 1, BBox: types.BBox{0, 500, 0, 0}},
		{Text: "p1 low", Size: 18, Page: 0, BBox: types.BBox{0, 400, 0, 0}},
		{Text: "p2 high", Size: 20, Page: 1, BBox: types.BBox{0, 50, 0, 0}},
		{Text: "p1 high", Size: 16, Page: 0, BBox: types.BBox{0, 20, 0, 0}},
	}

	got := ClusterHeadings(headings, 4)

	assert.Equal(t, []string{"p1 high", "p1 low", "p2 high", "p2 low"}, headingTexts(got))
	assert.Equal(t, "p2 low", headings[0].Text, "input slice must not be reordered")
}

func TestClusterHeadings_Empty(t *testing.T) {
	assert.Empty(t, ClusterHeadings(nil, 4))
}
