// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decode

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// SpanFileDecoder reads a span stream already produced by an external
// decoder and stored as JSON in the types.SpanDocument layout.
type SpanFileDecoder struct{}

// Decode reads path. Span page indexes are reset to the index of the page
// that holds them, and missing page sizes get the default dimensions.
func (d *SpanFileDecoder) Decode(path string) (types.SpanDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SpanDocument{}, fmt.Errorf("reading span file %s: %w", path, err)
	}

	var doc types.SpanDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.SpanDocument{}, fmt.Errorf("parsing span file %s: %w", path, err)
	}

	if doc.ID == "" {
		doc.ID = filepath.Base(path)
	}
	for i := range doc.Pages {
		p := &doc.Pages[i]
		if p.Width <= 0 {
			p.Width = defaultPageWidth
		}
		if p.Height <= 0 {
			p.Height = defaultPageHeight
		}
		for j := range p.Lines {
			for k := range p.Lines[j].Spans {
				p.Lines[j].Spans[k].Page = i
			}
		}
	}
	return doc, nil
}
