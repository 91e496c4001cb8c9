// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package structure

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// titleBlacklist holds lowercase line texts that never form a title.
var titleBlacklist = map[string]bool{
	"page":      true,
	"of":        true,
	"copyright": true,
	"©":         true,
}

type titleCandidate struct {
	text  string
	score float64
	yPos  float64
}

// DetectTitle returns the title of a document from its first page. Lines set
// noticeably larger than the body text are scored by size, horizontal
// centering, and closeness to the top of the page; every candidate whose
// score lies within TitleMergeWindow of the best is joined, in score order,
// so a title and subtitle set at similar prominence come out together.
// It returns "" when no line qualifies.
func (b *Builder) DetectTitle(page types.SpanPage, bodySize float64) string {
	var candidates []titleCandidate

	for _, line := range page.Lines {
		lt, ok := BuildLine(line)
		if !ok {
			continue
		}
		if utf8.RuneCountInString(lt.Text) < b.cfg.MinTitleLength || titleBlacklist[strings.ToLower(lt.Text)] {
			continue
		}
		if lt.MaxSize < bodySize*b.cfg.TitleSizeRatio {
			continue
		}

		bbox := line.Bounds()
		score := lt.MaxSize
		if math.Abs(bbox.CenterX()-page.Width/2) < page.Width*b.cfg.CenterTolerance {
			score += 2
		}
		if bbox.Top() < page.Height*b.cfg.TopRegion {
			score++
		}
		candidates = append(candidates, titleCandidate{text: lt.Text, score: score, yPos: bbox.Top()})
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].yPos < candidates[j].yPos
	})

	best := candidates[0].score
	var parts []string
	for _, c := range candidates {
		if c.score >= best-b.cfg.TitleMergeWindow {
			parts = append(parts, c.text)
		}
	}
	return strings.Join(parts, " ")
}
