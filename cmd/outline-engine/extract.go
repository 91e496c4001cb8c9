// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outline-engine/internal/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Infer the title, outline, and paragraphs of source documents",
	Long: `Extract decodes PDF, Markdown, or span JSON (*.spans.json) documents,
infers their title, H1-H4 outline, and per-page paragraphs, and writes one
structured JSON file per document to the output directory.

With no arguments every supported file in --input-dir is processed. Outputs
newer than their source are skipped unless --force is given. A document that
fails is reported and the batch continues; the command exits non-zero if any
document failed.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	e := extract.New(cfg.Extraction, extract.WithLogger(logger.Named("extract")))

	var summary extract.BatchSummary
	if len(args) > 0 {
		summary, err = e.ExtractPaths(cmd.Context(), args, os.Stdout)
	} else {
		summary, err = e.ExtractAll(cmd.Context(), os.Stdout)
	}
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("input-dir", "input", "directory scanned for source documents")
	extractCmd.Flags().String("output-dir", "structured", "directory for structured JSON output")
	extractCmd.Flags().Int("workers", 4, "documents processed concurrently")
	extractCmd.Flags().Bool("force", false, "re-extract documents whose output is up to date")

	bindFlag("extraction.input_dir", extractCmd.Flags().Lookup("input-dir"))
	bindFlag("extraction.output_dir", extractCmd.Flags().Lookup("output-dir"))
	bindFlag("extraction.workers", extractCmd.Flags().Lookup("workers"))
	bindFlag("extraction.force", extractCmd.Flags().Lookup("force"))

	rootCmd.AddCommand(extractCmd)
}
