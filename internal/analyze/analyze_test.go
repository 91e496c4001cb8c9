// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/outline-engine/pkg/types"
)

var travelRules = []types.RankingRule{
	{Name: "nightlife", MatchKeywords: []string{"nightlife", "bars", "clubs"}, Weight: 2},
	{Name: "logistics", MatchKeywords: []string{"hotel", "transport", "tips"}, Weight: 2},
	{Name: "group", MatchKeywords: []string{"group", "friends", "college"}, Weight: 3},
}

var travelJob = JobFile{
	Persona:     "Travel Planner",
	JobToBeDone: "Plan a trip of 4 days for a group of 10 college friends",
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func writeStructured(t *testing.T, dir, name string, headings ...string) {
	t.Helper()
	doc := types.StructuredDocument{Title: name, Outline: []types.OutlineEntry{}}
	for _, h := range headings {
		doc.Outline = append(doc.Outline, types.OutlineEntry{Level: types.LevelH1, Text: h, Page: 1})
	}
	doc.Pages = []types.PageText{{PageNum: 1, Paragraphs: []string{"Intro.", "More."}}}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
}

func testCorpus(t *testing.T) types.RankingConfig {
	t.Helper()
	dir := t.TempDir()
	writeStructured(t, dir, "nice", "Nightlife in Nice", "Hotel Booking Tips")
	writeStructured(t, dir, "budget", "Budget Tips for College Groups", "History of the Region")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	return types.RankingConfig{
		StructuredDir: dir,
		ResultsDir:    filepath.Join(t.TempDir(), "results"),
		TopK:          5,
		Rules:         travelRules,
	}
}

func TestLoadCorpus(t *testing.T) {
	cfg := testCorpus(t)

	corpus, err := New(cfg).LoadCorpus(context.Background())
	require.NoError(t, err)

	require.Len(t, corpus, 2)
	assert.Equal(t, "budget.pdf", corpus[0].ID)
	assert.Equal(t, "nice.pdf", corpus[1].ID)
	assert.Len(t, corpus[1].Doc.Outline, 2)
}

func TestLoadCorpusSourceExt(t *testing.T) {
	cfg := testCorpus(t)
	cfg.SourceExt = ".md"

	corpus, err := New(cfg).LoadCorpus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "budget.md", corpus[0].ID)
}

func TestLoadCorpusMissingDir(t *testing.T) {
	_, err := New(types.RankingConfig{StructuredDir: filepath.Join(t.TempDir(), "missing")}).LoadCorpus(context.Background())
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	cfg := testCorpus(t)

	out, err := New(cfg, WithClock(fixedClock)).Run(context.Background(), travelJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"budget.pdf", "nice.pdf"}, out.Metadata.InputDocuments)
	assert.Equal(t, "2026-03-14T09:30:00Z", out.Metadata.ProcessingTimestamp)
	require.Len(t, out.ExtractedSections, 4)
	assert.Equal(t, "Budget Tips for College Groups", out.ExtractedSections[0].SectionTitle)
	assert.Equal(t, "budget.pdf", out.ExtractedSections[0].Document)
	assert.Equal(t, "History of the Region", out.ExtractedSections[3].SectionTitle)
}

func TestRunJobOverrides(t *testing.T) {
	cfg := testCorpus(t)
	job := travelJob
	job.TopK = 1
	job.Rules = []types.RankingRule{{Name: "history", MatchKeywords: []string{"history"}, Weight: 10}}

	out, err := New(cfg).Run(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, out.ExtractedSections, 1)
	assert.Equal(t, "History of the Region", out.ExtractedSections[0].SectionTitle)
}

func TestRunRequiresTask(t *testing.T) {
	_, err := New(testCorpus(t)).Run(context.Background(), JobFile{Persona: "Travel Planner"})
	assert.Error(t, err)
}

func TestSaveDefaultPath(t *testing.T) {
	cfg := testCorpus(t)
	a := New(cfg, WithClock(fixedClock))

	out, err := a.Run(context.Background(), travelJob)
	require.NoError(t, err)

	path, err := a.Save(out, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ResultsDir, "ranked_20260314_093000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got types.RankedOutput
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, out, got)
}

func TestSaveExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	got, err := New(types.RankingConfig{}).Save(types.RankedOutput{}, path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.FileExists(t, path)
}

func TestJobFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	job := travelJob
	job.TopK = 3
	job.Rules = travelRules

	require.NoError(t, WriteJobFile(path, job))
	got, err := ReadJobFile(path)
	require.NoError(t, err)
	assert.Equal(t, job, *got)
	assert.Equal(t, "Travel Planner", got.Query().Persona)
}

func TestReadJobFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	content := `persona: HR Professional
job_to_be_done: Create and manage fillable forms
top_k: 3
rules:
  - name: forms
    keywords: [form, fillable, signature]
    weight: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadJobFile(path)
	require.NoError(t, err)
	assert.Equal(t, "HR Professional", got.Persona)
	assert.Equal(t, 3, got.TopK)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, []string{"form", "fillable", "signature"}, got.Rules[0].MatchKeywords)

	_, err = ReadJobFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("persona: [unclosed"), 0o644))
	_, err = ReadJobFile(bad)
	assert.Error(t, err)
}

func TestReadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `- name: nightlife
  keywords: [nightlife, bars]
  weight: 2
- name: food
  keywords: [cuisine]
  weight: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := ReadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []types.RankingRule{
		{Name: "nightlife", MatchKeywords: []string{"nightlife", "bars"}, Weight: 2},
		{Name: "food", MatchKeywords: []string{"cuisine"}, Weight: 1},
	}, rules)

	_, err = ReadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
