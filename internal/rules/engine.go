// Package rules implements the deterministic first stage of the
// classifier: weighted keyword/regex/filename matching against a
// document.
package rules

import (
	"regexp"
	"strings"

	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/model"
)

// Engine evaluates the compiled rule set of every category against a
// document. It is pure computation: safe for concurrent use across
// workers once constructed.
type Engine struct {
	cats []compiledCategory
}

type compiledCategory struct {
	name  string
	rules []compiledRule
}

type compiledRule struct {
	id      string
	field   model.RuleField
	weight  float64
	keyword string         // lower-cased, set for keyword rules
	re      *regexp.Regexp // set for regex rules
}

// NewEngine compiles the catalog's rules. Duplicate rule identities
// within a category are dropped so they cannot double-count.
func NewEngine(cat *catalog.Catalog) (*Engine, error) {
	e := &Engine{cats: make([]compiledCategory, 0, len(cat.Categories))}

	for _, c := range cat.Categories {
		cc := compiledCategory{name: c.Name}
		seen := make(map[string]bool)

		for _, r := range c.Rules {
			id := r.Identity()
			if seen[id] {
				continue
			}
			seen[id] = true

			cr := compiledRule{id: id, field: r.Field, weight: r.Weight}
			switch r.Kind {
			case model.RuleKindKeyword:
				cr.keyword = strings.ToLower(r.Pattern)
			case model.RuleKindRegex:
				re, err := regexp.Compile("(?i)" + r.Pattern)
				if err != nil {
					// The catalog validates regexes at load time; reaching
					// this is an internal defect, not a user error.
					return nil, &model.ValidationError{Detail: "rule " + id + " failed to compile"}
				}
				cr.re = re
			}
			cc.rules = append(cc.rules, cr)
		}

		e.cats = append(e.cats, cc)
	}

	return e, nil
}

// Evaluate tests every rule of every category against doc and returns
// an explicit result per category. Zero matches yield a zero-score
// result, never an omission. Empty extracted text simply matches
// nothing.
func (e *Engine) Evaluate(doc *model.Document) map[string]model.RuleMatchResult {
	text := strings.ToLower(doc.Text)
	filename := strings.ToLower(doc.Meta.Filename)
	metadata := strings.ToLower(doc.MetaString())

	results := make(map[string]model.RuleMatchResult, len(e.cats))

	for _, cc := range e.cats {
		res := model.RuleMatchResult{Category: cc.name}

		for _, r := range cc.rules {
			var subject string
			switch r.field {
			case model.FieldText:
				subject = text
			case model.FieldFilename:
				subject = filename
			case model.FieldMetadata:
				subject = metadata
			}

			if subject == "" {
				continue
			}

			matched := false
			if r.re != nil {
				matched = r.re.MatchString(subject)
			} else {
				matched = strings.Contains(subject, r.keyword)
			}

			if matched {
				res.Matched = append(res.Matched, r.id)
				res.Score += r.weight
			}
		}

		// Cap keeps aggregates comparable across categories with
		// rule sets of different sizes.
		if res.Score > 1.0 {
			res.Score = 1.0
		}

		results[cc.name] = res
	}

	return results
}
