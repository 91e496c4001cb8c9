// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze loads a directory of structured documents, ranks their
// sections for a persona and task, and writes the ranked output file.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/outline-engine/internal/rank"
	"github.com/pdiddy/outline-engine/pkg/types"
)

const (
	defaultSourceExt  = ".pdf"
	defaultResultsDir = "results"
	timestampLayout   = "20060102_150405"
)

// Analyzer ranks a corpus of structured documents.
type Analyzer struct {
	cfg types.RankingConfig
	log *zap.Logger
	now func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for skipped documents.
func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New returns an Analyzer for cfg.
func New(cfg types.RankingConfig, opts ...Option) *Analyzer {
	if cfg.SourceExt == "" {
		cfg.SourceExt = defaultSourceExt
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = defaultResultsDir
	}
	a := &Analyzer{cfg: cfg, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(a)
	}
	return a
}

// LoadCorpus reads every *.json file in the structured directory, sorted by
// name. Files that cannot be parsed are logged and skipped. Each document is
// identified by its base name plus the configured source extension.
func (a *Analyzer) LoadCorpus(ctx context.Context) ([]rank.Document, error) {
	dir := a.cfg.StructuredDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading structured directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	corpus := make([]rank.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := readStructured(filepath.Join(dir, name))
		if err != nil {
			a.log.Warn("skipping structured document", zap.String("document", name), zap.Error(err))
			continue
		}
		corpus = append(corpus, rank.Document{
			ID:  strings.TrimSuffix(name, ".json") + a.cfg.SourceExt,
			Doc: doc,
		})
	}
	return corpus, nil
}

// Run ranks the corpus for job. The job's top_k and rules take precedence
// over the configured ones when set.
func (a *Analyzer) Run(ctx context.Context, job JobFile) (types.RankedOutput, error) {
	if err := job.Validate(); err != nil {
		return types.RankedOutput{}, err
	}
	corpus, err := a.LoadCorpus(ctx)
	if err != nil {
		return types.RankedOutput{}, err
	}

	rules := a.cfg.Rules
	if len(job.Rules) > 0 {
		rules = job.Rules
	}
	topK := a.cfg.TopK
	if job.TopK > 0 {
		topK = job.TopK
	}

	out := rank.NewRanker(rules, topK, rank.WithClock(a.now)).Rank(corpus, job.Query())
	a.log.Info("ranked corpus",
		zap.Int("documents", len(corpus)),
		zap.Int("sections", len(out.ExtractedSections)))
	return out, nil
}

// DefaultOutputPath returns results/ranked_<timestamp>.json under the
// configured results directory.
func (a *Analyzer) DefaultOutputPath() string {
	return filepath.Join(a.cfg.ResultsDir, "ranked_"+a.now().UTC().Format(timestampLayout)+".json")
}

// Save writes out as indented JSON to path, or to DefaultOutputPath when path
// is empty, and returns the path written.
func (a *Analyzer) Save(out types.RankedOutput, path string) (string, error) {
	if path == "" {
		path = a.DefaultOutputPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	var buf bytes.Buffer
	if err := rank.WriteJSON(&buf, out); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing ranked output: %w", err)
	}
	return path, nil
}

func readStructured(path string) (types.StructuredDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.StructuredDocument{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc types.StructuredDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return types.StructuredDocument{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
