package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mpetrenko/docsort/internal/model"
)

func sampleDecisions() []*model.Decision {
	return []*model.Decision{
		{Source: "/in/z.pdf", Category: "Invoices", Confidence: 0.9, Stage: model.StageRuleOnly},
		{Source: "/in/a.pdf", Category: "Contracts", Confidence: 0.41, Stage: model.StageBlended},
		{Source: "/in/m.txt", Category: model.CategoryUnclassified, Confidence: 0.1, Stage: model.StageUnclassified},
		{Source: "/in/bad.pdf", Category: model.CategoryUnclassified, Stage: model.StageFailed,
			Trace: model.Trace{Stage: model.StageFailed, Error: "extract: broken xref"}},
	}
}

func TestBuildReport(t *testing.T) {
	r := NewRenderer()
	report := r.BuildReport("/in", "/out", CatalogInfo{Path: "catalog.yaml", Fingerprint: "abc123"}, sampleDecisions())

	if report.Meta.RunID == "" {
		t.Error("RunID not set")
	}
	if report.Meta.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	if report.Meta.Fingerprint != "abc123" {
		t.Errorf("Fingerprint = %q", report.Meta.Fingerprint)
	}

	tot := report.Meta.Totals
	if tot.Documents != 4 || tot.Classified != 2 || tot.Unclassified != 1 || tot.Failed != 1 {
		t.Errorf("Totals = %+v", tot)
	}

	// Entries sorted by source path
	for i := 1; i < len(report.Entries); i++ {
		if report.Entries[i-1].Source > report.Entries[i].Source {
			t.Errorf("entries not sorted: %s > %s", report.Entries[i-1].Source, report.Entries[i].Source)
		}
	}
}

func TestBuildReport_EntriesStableAcrossRuns(t *testing.T) {
	r := NewRenderer()
	info := CatalogInfo{Path: "catalog.yaml", Fingerprint: "abc123"}

	a := r.BuildReport("/in", "/out", info, sampleDecisions())
	b := r.BuildReport("/in", "/out", info, sampleDecisions())

	// Run-scoped values live only in Meta; entries must compare equal.
	ea, _ := json.Marshal(a.Entries)
	eb, _ := json.Marshal(b.Entries)
	if string(ea) != string(eb) {
		t.Error("entries differ between identical runs")
	}
	if a.Meta.RunID == b.Meta.RunID {
		t.Error("each run must get its own RunID")
	}
}

func TestRenderJSON_ZeroDocuments(t *testing.T) {
	r := NewRenderer()
	report := r.BuildReport("/in", "/out", CatalogInfo{}, nil)

	path := filepath.Join(t.TempDir(), "report.json")
	if err := r.RenderJSON(report, path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), `"entries": []`) {
		t.Error("zero documents must render an empty entries array, not null")
	}

	var parsed model.Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if parsed.Meta.Totals.Documents != 0 {
		t.Errorf("Totals.Documents = %d", parsed.Meta.Totals.Documents)
	}
}

func TestRenderJSON_Roundtrip(t *testing.T) {
	r := NewRenderer()
	report := r.BuildReport("/in", "/out", CatalogInfo{Path: "c.yaml", Fingerprint: "f"}, sampleDecisions())

	path := filepath.Join(t.TempDir(), "report.json")
	if err := r.RenderJSON(report, path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, _ := os.ReadFile(path)
	var parsed model.Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(parsed.Entries) != 4 {
		t.Errorf("entries = %d, want 4", len(parsed.Entries))
	}
	if parsed.Entries[0].Source != "/in/a.pdf" {
		t.Errorf("first entry = %s, want /in/a.pdf", parsed.Entries[0].Source)
	}
}

func TestRenderSummary(t *testing.T) {
	r := NewRenderer()
	report := r.BuildReport("/in", "/out", CatalogInfo{}, sampleDecisions())

	var buf strings.Builder
	r.RenderSummary(report, &buf)
	out := buf.String()

	for _, want := range []string{
		"Documents:    4",
		"Classified:   2",
		"Unclassified: 1",
		"Failed:       1",
		"Invoices",
		"broken xref",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
