package rules

import (
	"testing"
	"time"

	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/model"
)

func testDoc(text, filename string) *model.Document {
	return &model.Document{
		Path: "/in/" + filename,
		Text: text,
		Meta: model.Metadata{
			Filename: filename,
			ModTime:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func mustEngine(t *testing.T, categories []model.Category) *Engine {
	t.Helper()
	cat, err := catalog.New(categories)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	engine, err := NewEngine(cat)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return engine
}

func TestEngine_Evaluate_BasicMatching(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Invoices", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "invoice", Weight: 0.5},
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "amount due", Weight: 0.4},
		}},
		{Name: "Contracts", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "agreement", Weight: 0.6},
		}},
	})

	results := engine.Evaluate(testDoc("INVOICE no. 42, amount due: 100 EUR", "doc.pdf"))

	if got := results["Invoices"].Score; got != 0.9 {
		t.Errorf("Invoices score = %v, want 0.9", got)
	}
	if got := results["Contracts"].Score; got != 0 {
		t.Errorf("Contracts score = %v, want 0", got)
	}
	if len(results["Invoices"].Matched) != 2 {
		t.Errorf("expected 2 matched rules, got %v", results["Invoices"].Matched)
	}
}

func TestEngine_Evaluate_EmptyTextMatchesNothing(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Invoices", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "invoice", Weight: 0.5},
			{Kind: model.RuleKindRegex, Field: model.FieldText, Pattern: ".*", Weight: 0.5},
		}},
		{Name: "Contracts", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "agreement", Weight: 0.6},
		}},
	})

	results := engine.Evaluate(testDoc("", "empty.pdf"))

	for name, res := range results {
		if res.Score != 0 {
			t.Errorf("category %s: score = %v for empty text, want 0", name, res.Score)
		}
		if len(res.Matched) != 0 {
			t.Errorf("category %s: matched %v for empty text", name, res.Matched)
		}
	}
}

func TestEngine_Evaluate_ExplicitResultPerCategory(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "A", Rules: []model.Rule{{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "alpha", Weight: 0.5}}},
		{Name: "B", Rules: []model.Rule{{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "beta", Weight: 0.5}}},
		{Name: "C", Rules: []model.Rule{{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "gamma", Weight: 0.5}}},
	})

	results := engine.Evaluate(testDoc("alpha only", "a.txt"))

	if len(results) != 3 {
		t.Fatalf("expected a result for every category, got %d", len(results))
	}
	for _, name := range []string{"A", "B", "C"} {
		if _, ok := results[name]; !ok {
			t.Errorf("missing explicit result for category %s", name)
		}
	}
}

func TestEngine_Evaluate_CaseInsensitive(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Stability", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "Shelf Life", Weight: 0.5},
			{Kind: model.RuleKindRegex, Field: model.FieldFilename, Pattern: "STAB", Weight: 0.4},
		}},
	})

	results := engine.Evaluate(testDoc("SHELF LIFE: 36 months", "stability_report.pdf"))

	if got := results["Stability"].Score; got != 0.9 {
		t.Errorf("score = %v, want 0.9 (both rules case-insensitive)", got)
	}
}

func TestEngine_Evaluate_DuplicateRulesCountOnce(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Toxicology", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "toxicology", Weight: 0.4},
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "toxicology", Weight: 0.4},
		}},
	})

	results := engine.Evaluate(testDoc("repeat dose toxicology study", "tox.pdf"))

	if got := results["Toxicology"].Score; got != 0.4 {
		t.Errorf("score = %v, want 0.4 (duplicate rule must not double-count)", got)
	}
}

func TestEngine_Evaluate_ScoreCappedAtOne(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Clinical", Rules: []model.Rule{
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "clinical", Weight: 0.7},
			{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "study", Weight: 0.7},
		}},
	})

	results := engine.Evaluate(testDoc("clinical study", "csr.pdf"))

	if got := results["Clinical"].Score; got != 1.0 {
		t.Errorf("score = %v, want capped 1.0", got)
	}
}

func TestEngine_Evaluate_OrderInvariant(t *testing.T) {
	ruleSet := []model.Rule{
		{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "stability", Weight: 0.5},
		{Kind: model.RuleKindKeyword, Field: model.FieldText, Pattern: "shelf life", Weight: 0.25},
		{Kind: model.RuleKindRegex, Field: model.FieldText, Pattern: "storage conditions?", Weight: 0.125},
		{Kind: model.RuleKindKeyword, Field: model.FieldFilename, Pattern: "stab", Weight: 0.0625},
	}
	doc := testDoc("stability: shelf life under storage condition X", "stab_summary.pdf")

	// Evaluate under several permutations of the same rule set
	permutations := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
		{1, 3, 0, 2},
	}

	var want float64 = -1
	for _, perm := range permutations {
		ordered := make([]model.Rule, len(ruleSet))
		for i, idx := range perm {
			ordered[i] = ruleSet[idx]
		}

		engine := mustEngine(t, []model.Category{{Name: "Stability", Rules: ordered}})
		got := engine.Evaluate(doc)["Stability"].Score

		if want < 0 {
			want = got
			continue
		}
		if got != want {
			t.Errorf("permutation %v: score = %v, want %v (order must not matter)", perm, got, want)
		}
	}
}

func TestEngine_Evaluate_MetadataField(t *testing.T) {
	engine := mustEngine(t, []model.Category{
		{Name: "Scans", Rules: []model.Rule{
			{Kind: model.RuleKindRegex, Field: model.FieldMetadata, Pattern: `ext=pdf`, Weight: 0.5},
		}},
	})

	results := engine.Evaluate(testDoc("whatever", "scan001.pdf"))

	if got := results["Scans"].Score; got != 0.5 {
		t.Errorf("metadata rule score = %v, want 0.5", got)
	}
}
