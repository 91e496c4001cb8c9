// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// WriteTable writes the selected sections as a human-readable table to w.
func WriteTable(w io.Writer, out types.RankedOutput) {
	if len(out.ExtractedSections) == 0 {
		fmt.Fprintln(w, "No sections found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-30s  %s\n", "Rank", "Section", "Document", "Page")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for _, s := range out.ExtractedSections {
		fmt.Fprintf(w, "%-4d  %-50s  %-30s  %d\n",
			s.ImportanceRank, truncate(s.SectionTitle, 50), truncate(s.Document, 30), s.PageNumber)
	}

	fmt.Fprintf(w, "\n%d sections from %d documents\n",
		len(out.ExtractedSections), len(out.Metadata.InputDocuments))
}

// WriteJSON writes the ranked output as indented JSON to w.
func WriteJSON(w io.Writer, out types.RankedOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
