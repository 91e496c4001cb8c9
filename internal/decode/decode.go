// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode turns source documents into the span stream consumed by
// structure inference. Each supported format has a Decoder; ForFile picks one
// by file name.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// Default page dimensions (US Letter, points) used when a format carries no
// page geometry.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// SpanFileSuffix marks pre-decoded span stream files.
const SpanFileSuffix = ".spans.json"

// Decoder reads a source document and returns its pages, lines, and spans.
type Decoder interface {
	Decode(path string) (types.SpanDocument, error)
}

// ForFile returns the decoder for a file name.
func ForFile(name string) (Decoder, error) {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, SpanFileSuffix) {
		return &SpanFileDecoder{}, nil
	}
	switch filepath.Ext(lower) {
	case ".pdf":
		return &PDFDecoder{}, nil
	case ".md", ".markdown":
		return &MarkdownDecoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

// IsSupported reports whether ForFile has a decoder for name.
func IsSupported(name string) bool {
	_, err := ForFile(name)
	return err == nil
}

// BaseName strips the directory and the format suffix from a source path,
// e.g. "in/guide.spans.json" and "in/guide.pdf" both yield "guide".
func BaseName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(base), SpanFileSuffix) {
		return base[:len(base)-len(SpanFileSuffix)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
