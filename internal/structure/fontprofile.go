// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package structure infers a document's title, heading outline, and
// paragraphs from its decoded span stream. Every function in the package is a
// pure function of its inputs; the Builder may segment pages concurrently.
package structure

import (
	"math"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// defaultBodyFontSize is returned for documents that contain no spans.
const defaultBodyFontSize = 12.0

// BodyFontSize returns the most common font size across spans, rounded to one
// decimal. When several sizes share the highest count the smallest wins, so
// the result does not depend on span order. An empty stream yields 12.0.
func BodyFontSize(spans []types.Span) float64 {
	return bodyFontSize(spans, defaultBodyFontSize)
}

func bodyFontSize(spans []types.Span, fallback float64) float64 {
	if len(spans) == 0 {
		return fallback
	}

	counts := make(map[float64]int)
	for _, s := range spans {
		counts[round1(s.Size)]++
	}

	best, bestCount := 0.0, 0
	for size, n := range counts {
		if n > bestCount || (n == bestCount && size < best) {
			best, bestCount = size, n
		}
	}
	return best
}

// round1 rounds x to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
