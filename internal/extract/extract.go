// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract runs structure inference over a directory of source
// documents, writing one structured JSON file per document.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/outline-engine/internal/decode"
	"github.com/pdiddy/outline-engine/internal/structure"
	"github.com/pdiddy/outline-engine/pkg/types"
)

const defaultWorkers = 4

// Status is the outcome of extracting one document.
type Status int

const (
	StatusExtracted Status = iota
	StatusSkipped
	StatusFailed
)

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// DecoderFor picks the decoder for a source path.
type DecoderFor func(path string) (decode.Decoder, error)

// Extractor turns source documents into structured JSON.
type Extractor struct {
	cfg        types.ExtractionConfig
	builder    *structure.Builder
	decoderFor DecoderFor
	log        *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDecoders replaces the file-extension decoder lookup.
func WithDecoders(fn DecoderFor) Option {
	return func(e *Extractor) { e.decoderFor = fn }
}

// WithLogger sets the logger for per-document diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(e *Extractor) { e.log = log }
}

// New returns an Extractor for cfg. An unset Structure section uses
// types.DefaultStructureConfig.
func New(cfg types.ExtractionConfig, opts ...Option) *Extractor {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Structure == (types.StructureConfig{}) {
		cfg.Structure = types.DefaultStructureConfig()
	}
	e := &Extractor{
		cfg:        cfg,
		builder:    structure.NewBuilder(cfg.Structure),
		decoderFor: decode.ForFile,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// OutputPath returns where the structured JSON for src is written.
func (e *Extractor) OutputPath(src string) string {
	return filepath.Join(e.cfg.OutputDir, decode.BaseName(src)+".json")
}

// Sources lists the supported documents in dir, sorted by name.
func Sources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !decode.IsSupported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ExtractAll processes every supported document in the configured input
// directory.
func (e *Extractor) ExtractAll(ctx context.Context, w io.Writer) (BatchSummary, error) {
	paths, err := Sources(e.cfg.InputDir)
	if err != nil {
		return BatchSummary{}, err
	}
	return e.ExtractPaths(ctx, paths, w)
}

// ExtractPaths processes paths with at most cfg.Workers documents in flight.
// A failing document is counted and reported; it never stops the batch.
// Status lines are written to w in input order once the batch completes.
func (e *Extractor) ExtractPaths(ctx context.Context, paths []string, w io.Writer) (BatchSummary, error) {
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	statuses := make([]Status, len(paths))
	lines := make([]string, len(paths))
	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	for i, p := range paths {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				statuses[i], lines[i] = StatusFailed, fmt.Sprintf("failed  %s: %v", decode.BaseName(p), err)
				return
			}
			statuses[i], lines[i] = e.ExtractFile(p)
		}(i, p)
	}
	wg.Wait()

	var summary BatchSummary
	for i, st := range statuses {
		fmt.Fprintln(w, lines[i])
		switch st {
		case StatusExtracted:
			summary.Extracted++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		summary.Extracted, summary.Skipped, summary.Failed, summary.Total())
	return summary, nil
}

// ExtractFile decodes src, infers its structure, and writes the JSON output.
// It returns the outcome and a one-line status message.
func (e *Extractor) ExtractFile(src string) (Status, string) {
	name := decode.BaseName(src)
	outPath := e.OutputPath(src)
	log := e.log.With(zap.String("document", filepath.Base(src)))

	if !e.cfg.Force {
		changed, err := hasChanged(src, outPath)
		if err != nil {
			log.Error("checking output freshness", zap.Error(err))
			return StatusFailed, fmt.Sprintf("failed  %s: %v", name, err)
		}
		if !changed {
			log.Debug("output up to date")
			return StatusSkipped, fmt.Sprintf("skipped %s", name)
		}
	}

	doc, err := e.Extract(src)
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		return StatusFailed, fmt.Sprintf("failed  %s: %v", name, err)
	}

	if err := writeResult(outPath, doc); err != nil {
		log.Error("writing output", zap.Error(err))
		return StatusFailed, fmt.Sprintf("failed  %s: write error: %v", name, err)
	}

	log.Info("extracted", zap.Int("headings", len(doc.Outline)), zap.Int("pages", len(doc.Pages)))
	return StatusExtracted, fmt.Sprintf("extracted %s (%d headings, %d pages)", name, len(doc.Outline), len(doc.Pages))
}

// Extract decodes src and returns its structured document without writing it.
func (e *Extractor) Extract(src string) (types.StructuredDocument, error) {
	dec, err := e.decoderFor(src)
	if err != nil {
		return types.StructuredDocument{}, err
	}
	spans, err := dec.Decode(src)
	if err != nil {
		return types.StructuredDocument{}, err
	}
	return e.builder.Build(spans), nil
}

// hasChanged reports whether the source is newer than the output file.
// Returns true if the output does not exist or the source is more recent.
func hasChanged(srcPath, outPath string) (bool, error) {
	srcInfo, err := os.Stat(srcPath)
	if err != nil {
		return false, fmt.Errorf("stat source %s: %w", srcPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return srcInfo.ModTime().After(outInfo.ModTime()), nil
}

// writeResult marshals the structured document as indented JSON.
func writeResult(path string, doc types.StructuredDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
