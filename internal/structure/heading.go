// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// headingStopwords holds lowercase line texts that are never headings.
var headingStopwords = map[string]bool{
	"page": true,
	"of":   true,
	"the":  true,
	"and":  true,
	"or":   true,
}

// Heading is a line detected as a heading candidate.
type Heading struct {
	Text string

	// Size is the mean font size of the line's spans, rounded to one decimal.
	Size float64

	// Page is the 0-based page index.
	Page int

	BBox  types.BBox
	Level types.HeadingLevel
}

// DetectHeadings scans every line of every page, in page and reading order,
// and returns the lines set larger than the body text. Texts are de-duplicated
// case-insensitively across the whole document; the first occurrence wins.
// A text is marked as seen once it passes the text filters, even if its size
// then rules it out, so a later larger copy is not reported either.
func (b *Builder) DetectHeadings(pages []types.SpanPage, bodySize float64) []Heading {
	seen := make(map[string]bool)
	var headings []Heading

	for pageIdx, page := range pages {
		for _, line := range page.Lines {
			lt, ok := BuildLine(line)
			if !ok {
				continue
			}
			lower := strings.ToLower(lt.Text)
			if utf8.RuneCountInString(lt.Text) < b.cfg.MinHeadingLength ||
				seen[lower] || isNumeric(lt.Text) || headingStopwords[lower] {
				continue
			}
			seen[lower] = true

			if lt.AvgSize < bodySize*b.cfg.HeadingSizeRatio {
				continue
			}
			headings = append(headings, Heading{
				Text: lt.Text,
				Size: lt.AvgSize,
				Page: pageIdx,
				BBox: line.Bounds(),
			})
		}
	}
	return headings
}

// ClusterHeadings assigns outline levels by font size: the largest distinct
// size becomes H1, the next H2, and so on, with every size past maxLevels
// folded into the last level. The result is sorted by page, then by the top
// edge of the heading, independent of detection order.
func ClusterHeadings(headings []Heading, maxLevels int) []Heading {
	if len(headings) == 0 {
		return nil
	}
	if maxLevels < 1 {
		maxLevels = 1
	}

	var sizes []float64
	distinct := make(map[float64]bool)
	for _, h := range headings {
		if !distinct[h.Size] {
			distinct[h.Size] = true
			sizes = append(sizes, h.Size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	levels := make(map[float64]types.HeadingLevel, len(sizes))
	for i, size := range sizes {
		levels[size] = types.HeadingLevel(fmt.Sprintf("H%d", min(i+1, maxLevels)))
	}

	out := make([]Heading, len(headings))
	copy(out, headings)
	for i := range out {
		out[i].Level = levels[out[i].Size]
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].BBox.Top() < out[j].BBox.Top()
	})
	return out
}

// isNumeric reports whether s is non-empty and made only of digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
