// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores the headings of a corpus of structured documents
// against a persona and task, selects the top K sections, and attaches the
// paragraphs that follow each section as context.
//
// Scoring is lexical: a heading earns one point per query keyword it shares,
// plus the weight of every configured rule whose keywords occur in it.
package rank

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// DefaultTopK is the number of sections selected when none is configured.
const DefaultTopK = 5

// Document is a structured document tagged with its identifier.
type Document struct {
	ID  string
	Doc types.StructuredDocument
}

// Query is the free-text description of the reader and their goal.
type Query struct {
	Persona string
	Task    string
}

// Candidate is one scored heading of one ranking run.
type Candidate struct {
	DocumentID string
	Page       int
	Title      string
	Score      int
	Context    string
}

// Ranker ranks sections. It is immutable after construction and safe for
// concurrent use.
type Ranker struct {
	rules []types.RankingRule
	topK  int
	now   func() time.Time
}

// Option customizes a Ranker.
type Option func(*Ranker)

// WithClock sets the clock used for the processing timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) { r.now = now }
}

// NewRanker returns a Ranker applying rules and selecting topK sections.
// A topK of zero or less uses DefaultTopK. Rule keywords are lowercased.
func NewRanker(rules []types.RankingRule, topK int, opts ...Option) *Ranker {
	if topK <= 0 {
		topK = DefaultTopK
	}

	normalized := make([]types.RankingRule, len(rules))
	for i, rule := range rules {
		kws := make([]string, 0, len(rule.MatchKeywords))
		for _, kw := range rule.MatchKeywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		normalized[i] = types.RankingRule{Name: rule.Name, MatchKeywords: kws, Weight: rule.Weight}
	}

	r := &Ranker{rules: normalized, topK: topK, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TopK returns the number of sections the ranker selects.
func (r *Ranker) TopK() int {
	return r.topK
}

// Score returns the score of a section title against the query keyword set.
func (r *Ranker) Score(title string, query map[string]bool) int {
	lower := strings.ToLower(title)
	score := overlap(Keywords(lower), query)
	for _, rule := range r.rules {
		for _, kw := range rule.MatchKeywords {
			if strings.Contains(lower, kw) {
				score += rule.Weight
				break
			}
		}
	}
	return score
}

// Candidates scores every heading of every document. Documents are scored
// concurrently; the result lists candidates in corpus order, then outline order.
func (r *Ranker) Candidates(corpus []Document, q Query) []Candidate {
	query := QueryKeywords(q)
	perDoc := make([][]Candidate, len(corpus))

	var wg sync.WaitGroup
	for i, d := range corpus {
		wg.Add(1)
		go func(i int, d Document) {
			defer wg.Done()
			cands := make([]Candidate, 0, len(d.Doc.Outline))
			for _, h := range d.Doc.Outline {
				cands = append(cands, Candidate{
					DocumentID: d.ID,
					Page:       h.Page,
					Title:      h.Text,
					Score:      r.Score(h.Text, query),
					Context:    FindContext(d.Doc, h.Page, h.Text),
				})
			}
			perDoc[i] = cands
		}(i, d)
	}
	wg.Wait()

	var all []Candidate
	for _, cands := range perDoc {
		all = append(all, cands...)
	}
	return all
}

// Select returns the topK candidates by descending score. Equal scores keep
// their original order.
func (r *Ranker) Select(cands []Candidate) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if len(sorted) > r.topK {
		sorted = sorted[:r.topK]
	}
	return sorted
}

// Rank scores the corpus against q and builds the ranked output. An empty
// corpus, or one without headings, yields empty section lists.
func (r *Ranker) Rank(corpus []Document, q Query) types.RankedOutput {
	selected := r.Select(r.Candidates(corpus, q))

	ids := make([]string, len(corpus))
	for i, d := range corpus {
		ids[i] = d.ID
	}

	out := types.RankedOutput{
		Metadata: types.RankedMetadata{
			InputDocuments:      ids,
			Persona:             q.Persona,
			JobToBeDone:         q.Task,
			ProcessingTimestamp: r.now().Format(time.RFC3339),
		},
		ExtractedSections:  make([]types.ExtractedSection, 0, len(selected)),
		SubsectionAnalysis: make([]types.SubsectionAnalysis, 0, len(selected)),
	}

	for i, c := range selected {
		out.ExtractedSections = append(out.ExtractedSections, types.ExtractedSection{
			Document:       c.DocumentID,
			PageNumber:     c.Page,
			SectionTitle:   c.Title,
			ImportanceRank: i + 1,
		})
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, types.SubsectionAnalysis{
			Document:    c.DocumentID,
			PageNumber:  c.Page,
			RefinedText: c.Context,
		})
	}
	return out
}
