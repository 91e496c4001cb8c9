// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// Synthetic layout for Markdown, which has no geometry of its own. Headings
// get sizes that descend with their level; everything else is body text.
const (
	markdownBodySize   = 12.0
	markdownMargin     = 72.0
	markdownLineGap    = 4.0
	markdownTextWidth  = defaultPageWidth - 2*markdownMargin
	markdownCharWidth  = 0.5 // fraction of the font size
	markdownBlockSpace = 6.0
)

var markdownHeadingSizes = map[int]float64{1: 24, 2: 20, 3: 17, 4: 15}

// MarkdownDecoder lays a Markdown document out on US Letter pages. An HTML
// comment of the form <!-- page N --> moves the following content to page N.
type MarkdownDecoder struct{}

// Decode parses the Markdown file at path.
func (d *MarkdownDecoder) Decode(path string) (types.SpanDocument, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return types.SpanDocument{}, fmt.Errorf("reading markdown %s: %w", path, err)
	}
	doc := DecodeMarkdown(src)
	doc.ID = filepath.Base(path)
	return doc, nil
}

// DecodeMarkdown lays out Markdown source held in memory.
func DecodeMarkdown(src []byte) types.SpanDocument {
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	l := &markdownLayout{}
	l.page(0)
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			size, ok := markdownHeadingSizes[node.Level]
			if !ok {
				size = 14
			}
			l.block(inlineLines(node, src), size)
		case *ast.HTMLBlock:
			if num, ok := parsePageMarker(strings.TrimSpace(string(rawLines(node, src)))); ok {
				l.page(num - 1)
			}
		case *ast.ThematicBreak:
		default:
			l.block(blockLines(n, src), markdownBodySize)
		}
	}
	return types.SpanDocument{Pages: l.pages}
}

type markdownLayout struct {
	pages   []types.SpanPage
	cursors []float64
	current int
}

// page makes idx the current page, creating pages up to it.
func (l *markdownLayout) page(idx int) {
	if idx < 0 {
		idx = 0
	}
	for len(l.pages) <= idx {
		l.pages = append(l.pages, types.SpanPage{Width: defaultPageWidth, Height: defaultPageHeight})
		l.cursors = append(l.cursors, markdownMargin)
	}
	l.current = idx
}

// block appends one line per text line at the given font size. Lines are
// left aligned at the margin; their width is estimated from character count.
func (l *markdownLayout) block(lines []string, size float64) {
	p := &l.pages[l.current]
	for _, s := range lines {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		top := l.cursors[l.current]
		width := min(float64(len([]rune(s)))*size*markdownCharWidth, markdownTextWidth)
		bbox := types.BBox{markdownMargin, top, markdownMargin + width, top + size}
		p.Lines = append(p.Lines, types.Line{
			BBox:  bbox,
			Spans: []types.Span{{Text: s, Size: size, BBox: bbox, Page: l.current}},
		})
		p.TextLines = append(p.TextLines, s)
		l.cursors[l.current] = top + size + markdownLineGap
	}
	l.cursors[l.current] += markdownBlockSpace
}

// blockLines collects the text lines of a block, descending into containers
// such as lists and block quotes.
func blockLines(n ast.Node, src []byte) []string {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		return inlineLines(n, src)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return strings.Split(strings.TrimRight(string(rawLines(n, src)), "\n"), "\n")
	case *ast.HTMLBlock:
		return nil
	}
	var lines []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		lines = append(lines, blockLines(c, src)...)
	}
	return lines
}

// inlineLines renders the inline content of a block, breaking at soft and
// hard line breaks.
func inlineLines(n ast.Node, src []byte) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			cur.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				lines = append(lines, cur.String())
				cur.Reset()
			}
		case *ast.String:
			cur.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func rawLines(n ast.Node, src []byte) []byte {
	var b []byte
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b = append(b, seg.Value(src)...)
	}
	return b
}

// parsePageMarker extracts the page number from an HTML comment like <!-- page 3 -->.
func parsePageMarker(line string) (int, bool) {
	if !strings.HasPrefix(line, "<!-- page ") || !strings.HasSuffix(line, " -->") {
		return 0, false
	}
	inner := strings.TrimPrefix(line, "<!-- page ")
	inner = strings.TrimSuffix(inner, " -->")
	var page int
	if _, err := fmt.Sscanf(inner, "%d", &page); err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
