// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outline-engine/internal/analyze"
	"github.com/pdiddy/outline-engine/internal/index"
	"github.com/pdiddy/outline-engine/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the section index (store, retrieve, export)",
	Long: `Index manages a local SQLite database of outline sections built from
structured documents. Each section keeps its heading, level, page, and the
paragraphs that follow it, searchable with full-text queries.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Index the sections of structured documents",
	Long: `Store reads structured JSON documents from --structured-dir and indexes
their outline sections with FTS4 full-text search, then writes export.yaml.
Documents whose content is unchanged since the last run are skipped.`,
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("structured-dir") {
		cfg.Ranking.StructuredDir, _ = cmd.Flags().GetString("structured-dir")
	}

	corpus, err := analyze.New(cfg.Ranking, analyze.WithLogger(logger.Named("index"))).LoadCorpus(cmd.Context())
	if err != nil {
		return err
	}

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), corpus, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the section index with full-text search and filters",
	Long: `Retrieve searches headings and their context using FTS4 full-text
search, structured filters (level, document), or both.`,
	RunE: runIndexRetrieve,
}

func runIndexRetrieve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --level, or --document")
	}

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(os.Stdout, results, jsonOutput)
}

func formatRetrieveOutput(w io.Writer, results []index.Section, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-5s  %-45s  %-25s  %s\n", "#", "Level", "Heading", "Document", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-5s  %-45s  %-25s  %d\n",
			i+1, r.Level, clip(r.Heading, 45), clip(r.DocumentID, 25), r.Page)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the section index to YAML or JSON",
	Long: `Export writes the full index (or a filtered subset) to export.yaml or
export.json in the index directory. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := store.ExportYAML(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("yaml"))
	case "json":
		if err := store.ExportJSON(cmd.Context(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to", store.ExportPath("json"))
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) index.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	level, _ := cmd.Flags().GetString("level")
	document, _ := cmd.Flags().GetString("document")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Query:      queryText,
		Level:      types.HeadingLevel(strings.ToUpper(level)),
		DocumentID: document,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the section database and exports")
	indexCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")
	bindFlag("index.index_dir", indexCmd.PersistentFlags().Lookup("index-dir"))
	bindFlag("index.max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	indexStoreCmd.Flags().String("structured-dir", "structured", "directory of structured JSON documents")

	for _, c := range []*cobra.Command{indexRetrieveCmd, indexExportCmd} {
		c.Flags().String("query", "", "full-text search query")
		c.Flags().String("level", "", "filter by outline level: H1, H2, H3, H4")
		c.Flags().String("document", "", "filter by document id")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
