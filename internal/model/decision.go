package model

// CategoryUnclassified is the sentinel category for documents that
// could not be confidently assigned. It is always a valid decision
// target alongside the configured category set.
const CategoryUnclassified = "Unclassified"

// Stage identifies which pipeline signal produced a decision
type Stage string

const (
	StageRuleOnly     Stage = "rule-only"    // rules alone were conclusive
	StageBlended      Stage = "blended"      // rule + semantic weighted sum
	StageUnclassified Stage = "unclassified" // best score below the confidence floor
	StageFailed       Stage = "failed"       // extraction or internal error
)

// RuleMatchResult is the rule engine outcome for one (document, category)
// pair. A zero score with no matches is an explicit result, not an omission.
type RuleMatchResult struct {
	Category string   `json:"category"`
	Matched  []string `json:"matched,omitempty"` // identities of triggered rules
	Score    float64  `json:"score"`             // sum of weights, capped at 1.0
}

// SemanticScore is the cosine similarity between a document embedding
// and one category centroid, in [-1, 1].
type SemanticScore struct {
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

// CategoryScore is the per-category evidence recorded in a decision trace
type CategoryScore struct {
	Rule     float64  `json:"rule"`
	Semantic *float64 `json:"semantic,omitempty"` // nil when the semantic stage was skipped
	Combined float64  `json:"combined"`
}

// Trace records the evidence that led to a decision. It is mandatory:
// the resolver never discards its inputs.
type Trace struct {
	Stage        Stage                    `json:"stage"`
	Scores       map[string]CategoryScore `json:"scores,omitempty"`
	MatchedRules map[string][]string      `json:"matched_rules,omitempty"`
	RunnerUp     string                   `json:"runner_up,omitempty"`
	Margin       float64                  `json:"margin"` // top combined score minus runner-up
	Error        string                   `json:"error,omitempty"`
}

// Decision is the final, immutable output for one document per run
type Decision struct {
	Source      string  `json:"source"`
	Category    string  `json:"category"` // configured category or CategoryUnclassified
	Confidence  float64 `json:"confidence"`
	Stage       Stage   `json:"stage"`
	Destination string  `json:"destination,omitempty"` // set after materialization
	Trace       Trace   `json:"trace"`
}

// Failed reports whether the document's pipeline errored out
func (d *Decision) Failed() bool {
	return d.Stage == StageFailed
}

// Classified reports whether a configured category was chosen
func (d *Decision) Classified() bool {
	return d.Stage == StageRuleOnly || d.Stage == StageBlended
}
