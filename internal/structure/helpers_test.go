package structure

import "github.com/pdiddy/outline-engine/pkg/types"

// span builds a span on page 0 with the given box.
func span(text string, size, x0, y0, x1, y1 float64) types.Span {
	return types.Span{Text: text, Size: size, BBox: types.BBox{x0, y0, x1, y1}}
}

// textLine builds a one-span line whose box spans [x0, x1] at top y.
func textLine(text string, size, x0, x1, y float64) types.Line {
	return types.Line{Spans: []types.Span{span(text, size, x0, y, x1, y+size)}}
}

// bodyLines returns n body-size lines starting at y, 20 points apart.
func bodyLines(n int, size, y float64) []types.Line {
	lines := make([]types.Line, n)
	for i := range lines {
		lines[i] = textLine("Plain body text that carries the document content", size, 72, 540, y+float64(i)*20)
	}
	return lines
}

func testBuilder() *Builder {
	return NewBuilder(types.DefaultStructureConfig())
}
