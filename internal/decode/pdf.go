// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/outline-engine/pkg/types"
)

const (
	defaultRowTolerance = 2.0
	// wordGapRatio is the horizontal gap, as a fraction of font size, above
	// which two glyphs are separated by a space.
	wordGapRatio = 0.2
	// maxParentDepth bounds the walk up the page tree for inherited attributes.
	maxParentDepth = 32
)

// PDFDecoder extracts positioned glyphs from a PDF and groups them into
// lines and same-size spans.
type PDFDecoder struct {
	// RowTolerance is the largest baseline difference, in points, between
	// glyphs of one line (default 2).
	RowTolerance float64
}

// Decode reads every page of the PDF at path. Malformed files that make the
// PDF library panic are reported as errors.
func (d *PDFDecoder) Decode(path string) (doc types.SpanDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = types.SpanDocument{}, fmt.Errorf("decoding pdf %s: %v", path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return types.SpanDocument{}, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	doc.ID = filepath.Base(path)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, types.SpanPage{Width: defaultPageWidth, Height: defaultPageHeight})
			continue
		}
		width, height := pageSize(page)
		doc.Pages = append(doc.Pages, d.layoutPage(page.Content().Text, i-1, width, height))
	}
	return doc, nil
}

// pageSize reads the MediaBox of a page, following inheritance up the page tree.
func pageSize(page pdflib.Page) (float64, float64) {
	v := page.V
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		if mb := v.Key("MediaBox"); mb.Len() == 4 {
			w := mb.Index(2).Float64() - mb.Index(0).Float64()
			h := mb.Index(3).Float64() - mb.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

type glyphRow struct {
	y      float64
	glyphs []pdflib.Text
}

// layoutPage groups glyphs into rows by baseline, orders rows top to bottom
// and glyphs left to right, and splits each row into spans wherever the font
// or size changes. Coordinates are flipped so y grows downward.
func (d *PDFDecoder) layoutPage(texts []pdflib.Text, pageIdx int, width, height float64) types.SpanPage {
	tol := d.RowTolerance
	if tol <= 0 {
		tol = defaultRowTolerance
	}

	var rows []*glyphRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		var row *glyphRow
		for _, r := range rows {
			if math.Abs(r.y-t.Y) <= tol {
				row = r
				break
			}
		}
		if row == nil {
			row = &glyphRow{y: t.Y}
			rows = append(rows, row)
		}
		row.glyphs = append(row.glyphs, t)
	}

	// PDF y grows upward: the highest baseline is the top line.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	page := types.SpanPage{Width: width, Height: height}
	for _, r := range rows {
		sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].X < r.glyphs[j].X })

		line := types.Line{Spans: rowSpans(r.glyphs, pageIdx, height)}
		line.BBox = line.Bounds()

		parts := make([]string, len(line.Spans))
		for i, s := range line.Spans {
			parts[i] = s.Text
		}
		page.Lines = append(page.Lines, line)
		page.TextLines = append(page.TextLines, strings.Join(parts, " "))
	}
	return page
}

// rowSpans merges left-to-right glyphs of one row into spans.
func rowSpans(glyphs []pdflib.Text, pageIdx int, height float64) []types.Span {
	var (
		spans []types.Span
		b     strings.Builder
		first pdflib.Text
		prev  pdflib.Text
	)

	flush := func() {
		if b.Len() == 0 {
			return
		}
		spans = append(spans, types.Span{
			Text: norm.NFKC.String(b.String()),
			Size: first.FontSize,
			BBox: types.BBox{first.X, height - (first.Y + first.FontSize), prev.X + prev.W, height - first.Y},
			Page: pageIdx,
		})
		b.Reset()
	}

	for i, g := range glyphs {
		if i > 0 && (g.Font != prev.Font || math.Abs(g.FontSize-prev.FontSize) > 0.05) {
			flush()
		}
		if b.Len() == 0 {
			first = g
		} else if g.X-(prev.X+prev.W) > g.FontSize*wordGapRatio {
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		prev = g
	}
	flush()
	return spans
}
