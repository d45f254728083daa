package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mpetrenko/docsort/internal/model"
)

// Renderer builds and writes the run report
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// BuildReport assembles the audit report from a run's decisions.
// Entries are sorted by source path; run-scoped values (run ID,
// timestamp) live only in Meta so entries compare cleanly across runs.
func (r *Renderer) BuildReport(source, destination string, cat CatalogInfo, decisions []*model.Decision) *model.Report {
	entries := make([]model.Decision, 0, len(decisions))
	for _, d := range decisions {
		entries = append(entries, *d)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Source < entries[j].Source
	})

	totals := model.Totals{Documents: len(entries)}
	for _, e := range entries {
		switch {
		case e.Failed():
			totals.Failed++
		case e.Classified():
			totals.Classified++
		default:
			totals.Unclassified++
		}
	}

	return &model.Report{
		Meta: model.ReportMeta{
			RunID:       uuid.NewString(),
			Source:      source,
			Destination: destination,
			Catalog:     cat.Path,
			Fingerprint: cat.Fingerprint,
			GeneratedAt: time.Now().UTC(),
			Totals:      totals,
		},
		Entries: entries,
	}
}

// CatalogInfo carries the catalog identity recorded in the report
type CatalogInfo struct {
	Path        string
	Fingerprint string
}

// RenderJSON writes the report as indented JSON. A run with zero
// documents still produces a valid report with an empty entries array.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	if report.Entries == nil {
		report.Entries = []model.Decision{}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints the human triage summary
func (r *Renderer) RenderSummary(report *model.Report, w io.Writer) {
	t := report.Meta.Totals

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  Classification Summary\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Documents:    %d\n", t.Documents)
	fmt.Fprintf(w, "  Classified:   %d\n", t.Classified)
	fmt.Fprintf(w, "  Unclassified: %d (low confidence)\n", t.Unclassified)
	fmt.Fprintf(w, "  Failed:       %d (error)\n", t.Failed)
	fmt.Fprintf(w, "\n")

	if t.Documents == 0 {
		return
	}

	// Per-category distribution, most populated first
	counts := make(map[string]int)
	for _, e := range report.Entries {
		if e.Classified() {
			counts[e.Category]++
		}
	}
	if len(counts) > 0 {
		type kv struct {
			name  string
			count int
		}
		dist := make([]kv, 0, len(counts))
		for name, n := range counts {
			dist = append(dist, kv{name, n})
		}
		sort.Slice(dist, func(i, j int) bool {
			if dist[i].count != dist[j].count {
				return dist[i].count > dist[j].count
			}
			return dist[i].name < dist[j].name
		})

		fmt.Fprintf(w, "  Distribution:\n")
		for _, d := range dist {
			fmt.Fprintf(w, "    %-40s %d\n", d.name, d.count)
		}
		fmt.Fprintf(w, "\n")
	}

	for _, e := range report.Entries {
		if e.Failed() {
			fmt.Fprintf(w, "  ✗ %s: %s\n", e.Source, e.Trace.Error)
		}
	}
}
