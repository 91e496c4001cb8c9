// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RankingRule is a configurable score bonus. A section earns Weight once when
// any of MatchKeywords occurs as a substring of its lowercase title.
type RankingRule struct {
	// Name labels the rule in config files and logs (e.g. "nightlife").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// MatchKeywords are lowercase substrings that trigger the rule.
	MatchKeywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`

	// Weight is added to the section score when the rule triggers.
	Weight int `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// RankedMetadata describes the inputs of one ranking run.
type RankedMetadata struct {
	InputDocuments      []string `json:"input_documents" yaml:"input_documents"`
	Persona             string   `json:"persona" yaml:"persona"`
	JobToBeDone         string   `json:"job_to_be_done" yaml:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp" yaml:"processing_timestamp"`
}

// ExtractedSection is one selected section, ordered by importance.
type ExtractedSection struct {
	Document       string `json:"document" yaml:"document"`
	PageNumber     int    `json:"page_number" yaml:"page_number"`
	SectionTitle   string `json:"section_title" yaml:"section_title"`
	ImportanceRank int    `json:"importance_rank" yaml:"importance_rank"`
}

// SubsectionAnalysis carries the context text for the section at the same
// position in RankedOutput.ExtractedSections.
type SubsectionAnalysis struct {
	Document    string `json:"document" yaml:"document"`
	PageNumber  int    `json:"page_number" yaml:"page_number"`
	RefinedText string `json:"refined_text" yaml:"refined_text"`
}

// RankedOutput is the final artifact of the analysis step.
type RankedOutput struct {
	Metadata           RankedMetadata       `json:"metadata" yaml:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections" yaml:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis" yaml:"subsection_analysis"`
}
