// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the outline-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/outline-engine/internal/logging"
	"github.com/pdiddy/outline-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log settings before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the outline-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "outline-engine",
	Short: "Infer document outlines and rank sections for a persona",
	Long: `outline-engine recovers the structure of PDF and Markdown documents
(title, H1-H4 outline, per-page paragraphs) from font sizes and layout, then
ranks the recovered sections against a persona and a job to be done.

Each stage is a subcommand: extract writes structured JSON, rank selects the
most relevant sections across a corpus, and index keeps a searchable SQLite
store of every section and its surrounding text.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(cfg.Log, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./outline-engine.yaml or ~/.config/outline-engine/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file, rotated by size")
	rootCmd.PersistentFlags().Bool("log-json", false, "write console logs as JSON")

	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	bindFlag("log.json", rootCmd.PersistentFlags().Lookup("log-json"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("outline-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "outline-engine"))
		}
	}

	viper.SetEnvPrefix("OUTLINE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers the default for every configuration key so that
// environment variables can override keys absent from the config file.
func setDefaults() {
	s := types.DefaultStructureConfig()
	defaults := map[string]any{
		"extraction.input_dir":                    "input",
		"extraction.output_dir":                   "structured",
		"extraction.workers":                      4,
		"extraction.force":                        false,
		"extraction.structure.default_body_size":  s.DefaultBodySize,
		"extraction.structure.title_size_ratio":   s.TitleSizeRatio,
		"extraction.structure.title_merge_window": s.TitleMergeWindow,
		"extraction.structure.center_tolerance":   s.CenterTolerance,
		"extraction.structure.top_region":         s.TopRegion,
		"extraction.structure.min_title_length":   s.MinTitleLength,
		"extraction.structure.heading_size_ratio": s.HeadingSizeRatio,
		"extraction.structure.min_heading_length": s.MinHeadingLength,
		"extraction.structure.max_levels":         s.MaxLevels,
		"extraction.structure.long_line":          s.LongLine,
		"ranking.structured_dir":                  "structured",
		"ranking.results_dir":                     "results",
		"ranking.top_k":                           5,
		"ranking.source_ext":                      ".pdf",
		"index.index_dir":                         "index",
		"index.max_results":                       20,
		"log.level":                               "info",
	}
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// bindFlag ties a config key to a flag; the flag wins when set explicitly.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

// loadConfig decodes the merged defaults, config file, environment, and
// bound flags.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
