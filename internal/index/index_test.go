// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/outline-engine/internal/rank"
	"github.com/pdiddy/outline-engine/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.IndexConfig{IndexDir: filepath.Join(t.TempDir(), "index"), MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func guideDoc() types.StructuredDocument {
	return types.StructuredDocument{
		Title: "South of France Guide",
		Outline: []types.OutlineEntry{
			{Level: types.LevelH1, Text: "Nightlife in Nice", Page: 1},
			{Level: types.LevelH2, Text: "Hotel Booking Tips", Page: 2},
		},
		Pages: []types.PageText{
			{PageNum: 1, Paragraphs: []string{"Nightlife in Nice", "Bars line the old town harbour.", "Clubs open late."}},
			{PageNum: 2, Paragraphs: []string{"Hotel Booking Tips", "Reserve rooms early in summer."}},
		},
	}
}

func historyDoc() types.StructuredDocument {
	return types.StructuredDocument{
		Title: "Regional History",
		Outline: []types.OutlineEntry{
			{Level: types.LevelH1, Text: "History of the Region", Page: 1},
		},
		Pages: []types.PageText{
			{PageNum: 1, Paragraphs: []string{"History of the Region", "Roman settlements dot the coast."}},
		},
	}
}

func testCorpus() []rank.Document {
	return []rank.Document{
		{ID: "guide.pdf", Doc: guideDoc()},
		{ID: "history.pdf", Doc: historyDoc()},
	}
}

func ingest(t *testing.T, store *Store, corpus []rank.Document) IngestSummary {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), corpus, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return summary
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testSetup(t)

	for _, table := range []string{"documents", "sections", "sections_fts"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreReopens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	for i := 0; i < 2; i++ {
		store, err := NewStore(types.IndexConfig{IndexDir: dir})
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		store.Close()
	}
	if _, err := os.Stat(filepath.Join(dir, dbFile)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

// --- ingest tests ---

func TestIngest(t *testing.T) {
	store := testSetup(t)

	summary := ingest(t, store, testCorpus())
	if summary.Indexed != 2 || summary.Total() != 2 {
		t.Errorf("summary = %+v, want 2 indexed", summary)
	}

	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM sections`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("sections = %d, want 3", count)
	}

	if _, err := os.Stat(store.ExportPath("yaml")); err != nil {
		t.Errorf("export.yaml not written: %v", err)
	}
}

func TestIngestStoresContext(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	results, err := store.Retrieve(context.Background(), QueryOptions{DocumentID: "guide.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	want := "Bars line the old town harbour.\n\nClubs open late."
	if results[0].Context != want {
		t.Errorf("context = %q, want %q", results[0].Context, want)
	}
	if results[0].DocumentTitle != "South of France Guide" {
		t.Errorf("document title = %q", results[0].DocumentTitle)
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), testCorpus(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 2 || summary.Indexed != 0 {
		t.Errorf("summary = %+v, want 2 skipped", summary)
	}
	if !strings.Contains(buf.String(), "skipped guide.pdf") {
		t.Errorf("output should report the skip: %s", buf.String())
	}
}

func TestIngestUpdatesChanged(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	changed := guideDoc()
	changed.Outline = changed.Outline[:1]
	summary := ingest(t, store, []rank.Document{{ID: "guide.pdf", Doc: changed}})
	if summary.Updated != 1 {
		t.Errorf("Updated = %d, want 1", summary.Updated)
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{DocumentID: "guide.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("sections after update = %d, want 1", len(results))
	}

	// Removed sections must leave the full-text index too.
	results, err = store.Retrieve(context.Background(), QueryOptions{Query: "booking"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("stale FTS match: %+v", results)
	}
}

func TestIngestRemovesMissingDocuments(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), testCorpus()[:1], &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Removed != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 skipped and 1 removed", summary)
	}
	if !strings.Contains(buf.String(), "removed history.pdf") {
		t.Errorf("output should report the removal: %s", buf.String())
	}

	var docs int
	if err := store.db.QueryRow(`SELECT count(*) FROM documents WHERE id = 'history.pdf'`).Scan(&docs); err != nil {
		t.Fatal(err)
	}
	if docs != 0 {
		t.Errorf("history.pdf still indexed")
	}

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "roman"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("removed document still matches: %+v", results)
	}

	data, err := os.ReadFile(store.ExportPath("yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "History of the Region") {
		t.Errorf("export.yaml still lists the removed document")
	}
}

func TestIngestCancelled(t *testing.T) {
	store := testSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Ingest(ctx, testCorpus(), &strings.Builder{}); err == nil {
		t.Error("expected context error")
	}
}

// --- retrieve tests ---

func TestRetrieveFullTextSearch(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	tests := []struct {
		query string
		want  []string
	}{
		{query: "nightlife", want: []string{"Nightlife in Nice"}},
		{query: "roman", want: []string{"History of the Region"}},
		{query: "early", want: []string{"Hotel Booking Tips"}},
		{query: "submarine", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := store.Retrieve(context.Background(), QueryOptions{Query: tt.query})
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, r := range results {
				got = append(got, r.Heading)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("headings = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetrieveByLevel(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	results, err := store.Retrieve(context.Background(), QueryOptions{Level: types.LevelH1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].DocumentID != "guide.pdf" || results[1].DocumentID != "history.pdf" {
		t.Errorf("unexpected order: %+v", results)
	}
}

func TestRetrieveRespectsMaxResults(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	results, err := store.Retrieve(context.Background(), QueryOptions{MaxResults: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{MaxResults: 5}).IsEmpty() {
		t.Error("options with only a limit should be empty")
	}
	if (QueryOptions{Level: types.LevelH2}).IsEmpty() {
		t.Error("options with a level filter should not be empty")
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	ingest(t, store, testCorpus())

	if err := store.ExportYAML(context.Background(), QueryOptions{DocumentID: "history.pdf"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(store.ExportPath("yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var sections []Section
	if err := yaml.Unmarshal(data, &sections); err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 || sections[0].Heading != "History of the Region" {
		t.Errorf("exported = %+v", sections)
	}
}

func TestExportJSON(t *testing.T) {
	store := testSetup(t)

	// An empty index exports an empty list.
	if err := store.ExportJSON(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(store.ExportPath("json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %s", data)
	}

	ingest(t, store, testCorpus())
	if err := store.ExportJSON(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(store.ExportPath("json"))
	if err != nil {
		t.Fatal(err)
	}
	var sections []Section
	if err := json.Unmarshal(data, &sections); err != nil {
		t.Fatal(err)
	}
	if len(sections) != 3 {
		t.Errorf("exported %d sections, want 3", len(sections))
	}
}

// --- fingerprint tests ---

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(guideDoc())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint(guideDoc())
	c, _ := Fingerprint(historyDoc())

	if a != b {
		t.Errorf("same document produced different fingerprints: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different documents produced the same fingerprint")
	}
	if len(a) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(a))
	}
}
