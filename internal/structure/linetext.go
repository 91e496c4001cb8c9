// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"regexp"
	"strings"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// punctSpacing matches sentence punctuation together with any surrounding spaces.
var punctSpacing = regexp.MustCompile(`\s*([.,:;!?])\s*`)

// NormalizeText collapses whitespace runs to a single space and gives each of
// . , : ; ! ? no leading space and exactly one trailing space. Whitespace at
// either end of the result is trimmed. NormalizeText is idempotent.
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	s = punctSpacing.ReplaceAllString(s, "$1 ")
	return strings.TrimRight(s, " ")
}

// LineText is the merged text of one line together with its font metrics.
type LineText struct {
	Text string

	// MaxSize is the largest font size among the line's non-empty spans.
	MaxSize float64

	// AvgSize is the mean font size of the non-empty spans, rounded to one decimal.
	AvgSize float64
}

// BuildLine merges a line's spans into normalized text. Spans whose text is
// blank are ignored for both text and metrics. ok is false when no span
// carries text.
func BuildLine(line types.Line) (lt LineText, ok bool) {
	var (
		parts []string
		sum   float64
	)
	for _, s := range line.Spans {
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		parts = append(parts, t)
		sum += s.Size
		if s.Size > lt.MaxSize {
			lt.MaxSize = s.Size
		}
	}
	if len(parts) == 0 {
		return LineText{}, false
	}

	lt.Text = NormalizeText(strings.Join(parts, " "))
	lt.AvgSize = round1(sum / float64(len(parts)))
	return lt, true
}
