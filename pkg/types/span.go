// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the outline-engine pipeline:
// the decoded span stream consumed by structure inference, the persisted
// structured document, and the ranked output of the analysis step.
package types

import "strings"

// BBox is an axis-aligned box (x0, y0, x1, y1) in page coordinates with y
// growing downward, so y0 is the top edge.
type BBox [4]float64

// X0 returns the left edge.
func (b BBox) X0() float64 { return b[0] }

// Top returns the top edge.
func (b BBox) Top() float64 { return b[1] }

// X1 returns the right edge.
func (b BBox) X1() float64 { return b[2] }

// Bottom returns the bottom edge.
func (b BBox) Bottom() float64 { return b[3] }

// CenterX returns the horizontal midpoint.
func (b BBox) CenterX() float64 { return (b[0] + b[2]) / 2 }

// IsZero reports whether all coordinates are zero.
func (b BBox) IsZero() bool { return b == BBox{} }

// Union returns the smallest box containing both b and o. A zero box is
// treated as empty.
func (b BBox) Union(o BBox) BBox {
	if b.IsZero() {
		return o
	}
	if o.IsZero() {
		return b
	}
	return BBox{
		min(b[0], o[0]),
		min(b[1], o[1]),
		max(b[2], o[2]),
		max(b[3], o[3]),
	}
}

// Span is the smallest styled run of text produced by a decoder. It carries
// its own font size and position.
type Span struct {
	// Text is the run's text as decoded, untrimmed.
	Text string `json:"text" yaml:"text"`

	// Size is the font size in points.
	Size float64 `json:"size" yaml:"size"`

	// BBox is the run's bounding box.
	BBox BBox `json:"bbox" yaml:"bbox"`

	// Page is the 0-based page index the span was found on.
	Page int `json:"page" yaml:"page"`
}

// Line is an ordered group of spans sharing one visual text line.
type Line struct {
	// BBox is the line box reported by the decoder. When zero, Bounds falls
	// back to the union of the span boxes.
	BBox BBox `json:"bbox,omitempty" yaml:"bbox,omitempty"`

	Spans []Span `json:"spans" yaml:"spans"`
}

// Bounds returns the line's bounding box.
func (l Line) Bounds() BBox {
	if !l.BBox.IsZero() {
		return l.BBox
	}
	var b BBox
	for _, s := range l.Spans {
		b = b.Union(s.BBox)
	}
	return b
}

// SpanPage holds one decoded page: its dimensions, its span lines, and the
// flat reading-order text view used for paragraph segmentation.
type SpanPage struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Lines  []Line  `json:"lines" yaml:"lines"`

	// TextLines is the page's plain text, one entry per visual line, in
	// reading order. Decoders may leave it empty.
	TextLines []string `json:"text_lines,omitempty" yaml:"text_lines,omitempty"`
}

// PlainLines returns the page's non-empty, trimmed text lines. When the
// decoder supplied no TextLines, each span line is flattened by joining its
// trimmed, non-empty span texts with a single space.
func (p SpanPage) PlainLines() []string {
	var out []string
	if len(p.TextLines) > 0 {
		for _, l := range p.TextLines {
			if t := strings.TrimSpace(l); t != "" {
				out = append(out, t)
			}
		}
		return out
	}
	for _, l := range p.Lines {
		parts := make([]string, 0, len(l.Spans))
		for _, s := range l.Spans {
			if t := strings.TrimSpace(s.Text); t != "" {
				parts = append(parts, t)
			}
		}
		if t := strings.Join(parts, " "); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SpanDocument is the full decoded form of one source document.
type SpanDocument struct {
	// ID identifies the source document, normally its file name.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	Pages []SpanPage `json:"pages" yaml:"pages"`
}

// AllSpans returns every span of every page in document order.
func (d SpanDocument) AllSpans() []Span {
	var spans []Span
	for _, p := range d.Pages {
		for _, l := range p.Lines {
			spans = append(spans, l.Spans...)
		}
	}
	return spans
}
