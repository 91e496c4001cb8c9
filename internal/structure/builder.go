// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"sync"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// Builder composes the detectors into a StructuredDocument. A Builder holds
// only configuration and is safe for concurrent use.
type Builder struct {
	cfg types.StructureConfig
}

// NewBuilder returns a Builder using cfg. Sizes, ratios, lengths and
// MaxLevels that are zero or negative fall back to the defaults from
// types.DefaultStructureConfig. TitleMergeWindow, CenterTolerance and
// TopRegion are kept as given, since zero is meaningful for them.
func NewBuilder(cfg types.StructureConfig) *Builder {
	def := types.DefaultStructureConfig()
	if cfg.DefaultBodySize <= 0 {
		cfg.DefaultBodySize = def.DefaultBodySize
	}
	if cfg.TitleSizeRatio <= 0 {
		cfg.TitleSizeRatio = def.TitleSizeRatio
	}
	if cfg.MinTitleLength <= 0 {
		cfg.MinTitleLength = def.MinTitleLength
	}
	if cfg.HeadingSizeRatio <= 0 {
		cfg.HeadingSizeRatio = def.HeadingSizeRatio
	}
	if cfg.MinHeadingLength <= 0 {
		cfg.MinHeadingLength = def.MinHeadingLength
	}
	if cfg.MaxLevels <= 0 {
		cfg.MaxLevels = def.MaxLevels
	}
	if cfg.LongLine <= 0 {
		cfg.LongLine = def.LongLine
	}
	return &Builder{cfg: cfg}
}

// Config returns the effective configuration.
func (b *Builder) Config() types.StructureConfig {
	return b.cfg
}

// Build infers the structure of one decoded document: the body font size is
// profiled once, the title comes from the first page, headings from every
// page, and paragraphs are segmented per page.
func (b *Builder) Build(doc types.SpanDocument) types.StructuredDocument {
	body := bodyFontSize(doc.AllSpans(), b.cfg.DefaultBodySize)

	result := types.StructuredDocument{
		Outline: []types.OutlineEntry{},
		Pages:   b.BuildPages(doc.Pages),
	}

	if len(doc.Pages) > 0 {
		result.Title = b.DetectTitle(doc.Pages[0], body)
	}

	for _, h := range ClusterHeadings(b.DetectHeadings(doc.Pages, body), b.cfg.MaxLevels) {
		result.Outline = append(result.Outline, types.OutlineEntry{
			Level: h.Level,
			Text:  h.Text,
			Page:  h.Page + 1,
		})
	}

	return result
}

// BuildPages segments every page into paragraphs. Pages are independent, so
// each is segmented on its own goroutine; results keep page order.
func (b *Builder) BuildPages(pages []types.SpanPage) []types.PageText {
	out := make([]types.PageText, len(pages))

	var wg sync.WaitGroup
	for i, page := range pages {
		wg.Add(1)
		go func(i int, page types.SpanPage) {
			defer wg.Done()
			paragraphs := b.SegmentParagraphs(page.PlainLines())
			if paragraphs == nil {
				paragraphs = []string{}
			}
			out[i] = types.PageText{PageNum: i + 1, Paragraphs: paragraphs}
		}(i, page)
	}
	wg.Wait()

	return out
}
