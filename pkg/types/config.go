package types

// StructureConfig holds the thresholds used by structure inference. The zero
// value is not usable; start from DefaultStructureConfig.
type StructureConfig struct {
	// DefaultBodySize is the body font size assumed for documents without spans.
	DefaultBodySize float64 `json:"default_body_size" yaml:"default_body_size" mapstructure:"default_body_size"`

	// TitleSizeRatio is the minimum max-span-size/body-size ratio for a title line (default 1.2).
	TitleSizeRatio float64 `json:"title_size_ratio" yaml:"title_size_ratio" mapstructure:"title_size_ratio"`

	// TitleMergeWindow is how far below the best title score a line may fall
	// and still be joined into the title (default 1.0).
	TitleMergeWindow float64 `json:"title_merge_window" yaml:"title_merge_window" mapstructure:"title_merge_window"`

	// CenterTolerance is the fraction of page width within which a line's
	// midpoint counts as centered (default 0.15).
	CenterTolerance float64 `json:"center_tolerance" yaml:"center_tolerance" mapstructure:"center_tolerance"`

	// TopRegion is the fraction of page height counted as the top of the page (default 0.3).
	TopRegion float64 `json:"top_region" yaml:"top_region" mapstructure:"top_region"`

	// MinTitleLength is the shortest line text considered for a title (default 5).
	MinTitleLength int `json:"min_title_length" yaml:"min_title_length" mapstructure:"min_title_length"`

	// HeadingSizeRatio is the minimum avg-size/body-size ratio for a heading (default 1.15).
	HeadingSizeRatio float64 `json:"heading_size_ratio" yaml:"heading_size_ratio" mapstructure:"heading_size_ratio"`

	// MinHeadingLength is the shortest line text considered for a heading (default 3).
	MinHeadingLength int `json:"min_heading_length" yaml:"min_heading_length" mapstructure:"min_heading_length"`

	// MaxLevels caps the number of distinct heading levels (default 4).
	MaxLevels int `json:"max_levels" yaml:"max_levels" mapstructure:"max_levels"`

	// LongLine is the character count above which two adjacent lines may
	// form a paragraph boundary (default 50).
	LongLine int `json:"long_line" yaml:"long_line" mapstructure:"long_line"`
}

// DefaultStructureConfig returns the thresholds the heuristics were tuned with.
func DefaultStructureConfig() StructureConfig {
	return StructureConfig{
		DefaultBodySize:  12.0,
		TitleSizeRatio:   1.2,
		TitleMergeWindow: 1.0,
		CenterTolerance:  0.15,
		TopRegion:        0.3,
		MinTitleLength:   5,
		HeadingSizeRatio: 1.15,
		MinHeadingLength: 3,
		MaxLevels:        4,
		LongLine:         50,
	}
}

// ExtractionConfig holds settings for the extract stage.
type ExtractionConfig struct {
	// InputDir is the directory scanned for source documents.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one structured JSON file per source document.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Workers bounds the number of documents processed concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Force re-extracts documents whose output is newer than the source.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`

	Structure StructureConfig `json:"structure" yaml:"structure" mapstructure:"structure"`
}

// RankingConfig holds settings for the rank stage.
type RankingConfig struct {
	// StructuredDir is the directory of structured JSON documents to rank.
	StructuredDir string `json:"structured_dir" yaml:"structured_dir" mapstructure:"structured_dir"`

	// ResultsDir receives timestamped ranked-output files.
	ResultsDir string `json:"results_dir" yaml:"results_dir" mapstructure:"results_dir"`

	// TopK is the number of sections selected (default 5).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// SourceExt is appended to a structured file's base name to form the
	// document identifier (default ".pdf").
	SourceExt string `json:"source_ext" yaml:"source_ext" mapstructure:"source_ext"`

	// Rules are the category bonuses applied to section titles.
	Rules []RankingRule `json:"rules" yaml:"rules" mapstructure:"rules"`
}

// IndexConfig holds settings for the section index.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir" mapstructure:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File, when set, receives JSON log lines with size-based rotation.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// JSON switches the console output to JSON encoding.
	JSON bool `json:"json" yaml:"json" mapstructure:"json"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Ranking    RankingConfig    `json:"ranking" yaml:"ranking" mapstructure:"ranking"`
	Index      IndexConfig      `json:"index" yaml:"index" mapstructure:"index"`
	Log        LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
