// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes the matching sections to indexDir/export.yaml.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	sections, err := s.exportSections(ctx, opts)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(sections)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(s.ExportPath("yaml"), data, 0o644)
}

// ExportJSON writes the matching sections to indexDir/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	sections, err := s.exportSections(ctx, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(s.ExportPath("json"), data, 0o644)
}

// ExportPath returns the export file path for a format extension.
func (s *Store) ExportPath(ext string) string {
	return filepath.Join(s.indexDir, "export."+ext)
}

func (s *Store) exportSections(ctx context.Context, opts QueryOptions) ([]Section, error) {
	opts.MaxResults = exportLimit
	sections, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if sections == nil {
		sections = []Section{}
	}
	return sections, nil
}
