// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists the outline sections of structured documents in a
// SQLite database with full-text search over headings and their context.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/outline-engine/internal/rank"
	"github.com/pdiddy/outline-engine/pkg/types"
)

const (
	dbFile            = "sections.db"
	defaultMaxResults = 20
)

// Store manages the section index database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index at cfg.IndexDir/sections.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	indexDir := cfg.IndexDir
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	s := &Store{db: db, indexDir: indexDir, maxResults: maxResults}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			pages INTEGER,
			fingerprint TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id),
			ordinal INTEGER NOT NULL,
			level TEXT NOT NULL,
			heading TEXT NOT NULL,
			page INTEGER NOT NULL,
			context TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_document_id ON sections(document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_level ON sections(level)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS4 virtual table kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sections_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sections_fts USING fts4(heading, context)`,
			`CREATE TRIGGER sections_ai AFTER INSERT ON sections BEGIN
				INSERT INTO sections_fts(docid, heading, context) VALUES (new.rowid, new.heading, new.context);
			END`,
			`CREATE TRIGGER sections_ad AFTER DELETE ON sections BEGIN
				DELETE FROM sections_fts WHERE docid = old.rowid;
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	Removed int
}

// Total returns the number of corpus documents processed. Removed documents
// are not part of the corpus and are not counted.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any document failed to index.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest indexes every section of every document in corpus. Documents whose
// fingerprint matches the stored one are skipped; changed documents have
// their sections replaced. Indexed documents missing from corpus are removed,
// so the index mirrors the structured directory. On any change it rewrites
// export.yaml.
func (s *Store) Ingest(ctx context.Context, corpus []rank.Document, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, d := range corpus {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		fp, err := Fingerprint(d.Doc)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", d.ID, err)
			summary.Failed++
			continue
		}

		var stored string
		err = s.db.QueryRowContext(ctx,
			`SELECT fingerprint FROM documents WHERE id = ?`, d.ID,
		).Scan(&stored)
		if err == nil && stored == fp {
			fmt.Fprintf(w, "skipped %s\n", d.ID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.ingestDocument(ctx, d, fp, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", d.ID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d sections)\n", d.ID, len(d.Doc.Outline))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d sections)\n", d.ID, len(d.Doc.Outline))
			summary.Indexed++
		}
	}

	removed, err := s.pruneMissing(ctx, corpus)
	if err != nil {
		return summary, err
	}
	for _, id := range removed {
		fmt.Fprintf(w, "removed %s\n", id)
	}
	summary.Removed = len(removed)

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Removed)

	if summary.Indexed > 0 || summary.Updated > 0 || summary.Removed > 0 {
		if err := s.ExportYAML(ctx, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}
	return summary, nil
}

// pruneMissing deletes every indexed document whose id is not in corpus and
// returns the deleted ids in id order.
func (s *Store) pruneMissing(ctx context.Context, corpus []rank.Document) ([]string, error) {
	keep := make(map[string]bool, len(corpus))
	for _, d := range corpus {
		keep[d.ID] = true
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing indexed documents: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning document id: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing indexed documents: %w", err)
	}
	if len(stale) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE document_id = ?`, id); err != nil {
			return nil, fmt.Errorf("deleting sections of %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
			return nil, fmt.Errorf("deleting document %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing removals: %w", err)
	}
	return stale, nil
}

func (s *Store) ingestDocument(ctx context.Context, d rank.Document, fingerprint string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE document_id = ?`, d.ID); err != nil {
			return fmt.Errorf("deleting old sections: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, pages, fingerprint) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, pages=excluded.pages, fingerprint=excluded.fingerprint`,
		d.ID, d.Doc.Title, len(d.Doc.Pages), fingerprint,
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (document_id, ordinal, level, heading, page, context)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range d.Doc.Outline {
		_, err := stmt.ExecContext(ctx,
			d.ID, i, string(h.Level), h.Text, h.Page,
			rank.FindContext(d.Doc, h.Page, h.Text),
		)
		if err != nil {
			return fmt.Errorf("inserting section %q: %w", h.Text, err)
		}
	}

	return tx.Commit()
}
