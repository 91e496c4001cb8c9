// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// QueryOptions holds parameters for section queries.
type QueryOptions struct {
	// Query is the FTS4 full-text search string over headings and context.
	Query string

	// Level filters by outline level.
	Level types.HeadingLevel

	// DocumentID filters by document.
	DocumentID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Level == "" && q.DocumentID == ""
}

// Section is one indexed outline entry with its document title and context.
type Section struct {
	DocumentID    string             `json:"document" yaml:"document"`
	DocumentTitle string             `json:"document_title,omitempty" yaml:"document_title,omitempty"`
	Level         types.HeadingLevel `json:"level" yaml:"level"`
	Heading       string             `json:"heading" yaml:"heading"`
	Page          int                `json:"page" yaml:"page"`
	Context       string             `json:"context,omitempty" yaml:"context,omitempty"`
}

// Retrieve queries the index with optional full-text search and filters.
// Results are in document order, then outline order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Section, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	if opts.Query != "" {
		qb.WriteString(
			`SELECT s.document_id, d.title, s.level, s.heading, s.page, s.context
			FROM sections_fts
			JOIN sections s ON s.rowid = sections_fts.docid
			LEFT JOIN documents d ON s.document_id = d.id
			WHERE sections_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT s.document_id, d.title, s.level, s.heading, s.page, s.context
			FROM sections s
			LEFT JOIN documents d ON s.document_id = d.id
			WHERE 1=1`)
	}

	if opts.Level != "" {
		qb.WriteString(` AND s.level = ?`)
		args = append(args, string(opts.Level))
	}
	if opts.DocumentID != "" {
		qb.WriteString(` AND s.document_id = ?`)
		args = append(args, opts.DocumentID)
	}

	qb.WriteString(` ORDER BY s.document_id, s.ordinal LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying section index: %w", err)
	}
	defer rows.Close()

	var results []Section
	for rows.Next() {
		var (
			sec     Section
			level   string
			title   sql.NullString
			snippet sql.NullString
		)
		if err := rows.Scan(&sec.DocumentID, &title, &level, &sec.Heading, &sec.Page, &snippet); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sec.Level = types.HeadingLevel(level)
		sec.DocumentTitle = title.String
		sec.Context = snippet.String
		results = append(results, sec)
	}
	return results, rows.Err()
}
