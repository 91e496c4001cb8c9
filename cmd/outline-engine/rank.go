// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/outline-engine/internal/analyze"
	"github.com/pdiddy/outline-engine/internal/rank"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank outline sections across a corpus for a persona and task",
	Long: `Rank loads every structured JSON document in --structured-dir, scores
each outline heading against the persona, the job to be done, and the ranking
rules, and keeps the top K sections together with the paragraphs that follow
each heading.

The persona and job can come from flags or from a YAML job file (--job-file);
flags override the file. Rules come from the config file, the job file, or a
YAML rules list (--rules), the most specific source winning. The ranked output
is written to --output (default results/ranked_<timestamp>.json) and a summary
table is printed.`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	job, err := jobFromFlags(cmd)
	if err != nil {
		return err
	}

	a := analyze.New(cfg.Ranking, analyze.WithLogger(logger.Named("rank")))
	out, err := a.Run(cmd.Context(), job)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	path, err := a.Save(out, output)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Wrote", path)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return rank.WriteJSON(os.Stdout, out)
	}
	rank.WriteTable(os.Stdout, out)
	return nil
}

// jobFromFlags assembles the ranking request from --job-file, then applies
// the persona, job, rules, and top-k flags on top.
func jobFromFlags(cmd *cobra.Command) (analyze.JobFile, error) {
	var job analyze.JobFile

	if path, _ := cmd.Flags().GetString("job-file"); path != "" {
		jf, err := analyze.ReadJobFile(path)
		if err != nil {
			return job, err
		}
		job = *jf
	}

	if cmd.Flags().Changed("persona") {
		job.Persona, _ = cmd.Flags().GetString("persona")
	}
	if cmd.Flags().Changed("job") {
		job.JobToBeDone, _ = cmd.Flags().GetString("job")
	}
	if cmd.Flags().Changed("top-k") {
		job.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if path, _ := cmd.Flags().GetString("rules"); path != "" {
		rules, err := analyze.ReadRules(path)
		if err != nil {
			return job, err
		}
		job.Rules = rules
	}

	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("%w: provide --job or --job-file", err)
	}
	return job, nil
}

func init() {
	rankCmd.Flags().String("structured-dir", "structured", "directory of structured JSON documents")
	rankCmd.Flags().String("results-dir", "results", "directory for timestamped ranked output")
	rankCmd.Flags().String("source-ext", ".pdf", "extension appended to file base names to form document ids")
	rankCmd.Flags().String("output", "", "ranked output path (default <results-dir>/ranked_<timestamp>.json)")
	rankCmd.Flags().String("persona", "", "persona the sections are ranked for")
	rankCmd.Flags().String("job", "", "job to be done")
	rankCmd.Flags().String("job-file", "", "YAML job file with persona, job_to_be_done, top_k, and rules")
	rankCmd.Flags().Int("top-k", 5, "number of sections to select")
	rankCmd.Flags().String("rules", "", "YAML file with a list of ranking rules")
	rankCmd.Flags().Bool("json", false, "print the ranked output as JSON instead of a table")

	bindFlag("ranking.structured_dir", rankCmd.Flags().Lookup("structured-dir"))
	bindFlag("ranking.results_dir", rankCmd.Flags().Lookup("results-dir"))
	bindFlag("ranking.source_ext", rankCmd.Flags().Lookup("source-ext"))
	bindFlag("ranking.top_k", rankCmd.Flags().Lookup("top-k"))

	rootCmd.AddCommand(rankCmd)
}
