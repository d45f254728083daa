package model

import "fmt"

// RuleKind selects how a rule pattern is interpreted
type RuleKind string

const (
	RuleKindKeyword RuleKind = "keyword" // case-insensitive substring
	RuleKindRegex   RuleKind = "regex"   // case-insensitive regular expression
)

// RuleField selects which document attribute a rule is tested against
type RuleField string

const (
	FieldText     RuleField = "text"
	FieldFilename RuleField = "filename"
	FieldMetadata RuleField = "metadata"
)

// Rule is a single weighted pattern belonging to exactly one category.
// Weights of all matching rules are summed; there is no first-match-wins.
type Rule struct {
	Kind    RuleKind  `json:"kind" yaml:"kind"`
	Field   RuleField `json:"field" yaml:"field"`
	Pattern string    `json:"pattern" yaml:"pattern"`
	Weight  float64   `json:"weight" yaml:"weight"`
}

// Identity returns the deduplication key for a rule. Two rules with the
// same identity within a category count once.
func (r Rule) Identity() string {
	return fmt.Sprintf("%s:%s:%s", r.Kind, r.Field, r.Pattern)
}

// Category is one member of the closed category set. Loaded once at
// startup and never mutated during a run.
type Category struct {
	Name     string    `json:"name" yaml:"name"`
	Rules    []Rule    `json:"rules" yaml:"rules"`
	Centroid []float64 `json:"-" yaml:"-"` // precomputed centroid embedding, optional
}

// HasCentroid reports whether a centroid embedding was loaded
func (c *Category) HasCentroid() bool {
	return len(c.Centroid) > 0
}
