// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outline-engine/internal/rank"
	"github.com/pdiddy/outline-engine/pkg/types"
)

// JobFile is the on-disk description of a ranking request. It lets a persona,
// task, and rule set be saved once and rerun against new corpora.
type JobFile struct {
	Persona     string              `yaml:"persona" json:"persona"`
	JobToBeDone string              `yaml:"job_to_be_done" json:"job_to_be_done"`
	TopK        int                 `yaml:"top_k,omitempty" json:"top_k,omitempty"`
	Rules       []types.RankingRule `yaml:"rules,omitempty" json:"rules,omitempty"`
}

// Query returns the persona and task as a ranking query.
func (j JobFile) Query() rank.Query {
	return rank.Query{Persona: j.Persona, Task: j.JobToBeDone}
}

// Validate reports a job without a task.
func (j JobFile) Validate() error {
	if strings.TrimSpace(j.JobToBeDone) == "" {
		return fmt.Errorf("job file has no job_to_be_done")
	}
	return nil
}

// ReadJobFile loads a job file from disk.
func ReadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job file: %w", err)
	}
	var jf JobFile
	if err := yaml.Unmarshal(data, &jf); err != nil {
		return nil, fmt.Errorf("parsing job file: %w", err)
	}
	return &jf, nil
}

// WriteJobFile saves a job file as YAML.
func WriteJobFile(path string, jf JobFile) error {
	data, err := yaml.Marshal(&jf)
	if err != nil {
		return fmt.Errorf("marshaling job file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRules loads a YAML list of ranking rules.
func ReadRules(path string) ([]types.RankingRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rules []types.RankingRule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	return rules, nil
}
