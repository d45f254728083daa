// Package resolve merges rule and semantic signals into one final
// Decision per document, applying the deterministic threshold,
// blending, and tie-break policy.
package resolve

import (
	"fmt"
	"sort"

	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/model"
)

// Resolver applies the decision policy. It is pure computation and
// safe for concurrent use.
type Resolver struct {
	cfg   model.ResolverConfig
	names []string // configured category names, sorted
}

// NewResolver creates a resolver over the catalog's category set
func NewResolver(cfg model.ResolverConfig, cat *catalog.Catalog) *Resolver {
	names := make([]string, len(cat.Names))
	copy(names, cat.Names)
	sort.Strings(names)

	return &Resolver{cfg: cfg, names: names}
}

// NeedsSemantic reports whether the rule results are inconclusive under
// the configured rule-decision policy. When it returns false the
// semantic stage is skipped entirely; embedding is the most expensive
// step in the pipeline and the skip is a deliberate optimization.
func (r *Resolver) NeedsSemantic(ruleResults map[string]model.RuleMatchResult) bool {
	top, runner := r.topTwoRuleScores(ruleResults)

	if top < r.cfg.RuleThreshold {
		return true
	}
	if r.cfg.RuleDecision == model.PolicyMargin && top-runner < r.cfg.RuleMargin {
		return true
	}
	return false
}

// Resolve produces the final Decision for one document.
// semScores is nil when the semantic stage was skipped or unavailable;
// semErr carries an embedding failure when one occurred.
func (r *Resolver) Resolve(source string, ruleResults map[string]model.RuleMatchResult, semScores map[string]model.SemanticScore, semErr error) model.Decision {
	if !r.NeedsSemantic(ruleResults) {
		return r.guard(r.ruleOnly(source, ruleResults, ""))
	}

	if semScores != nil {
		return r.guard(r.blended(source, ruleResults, semScores))
	}

	// Semantic required but absent: fall back to whatever rule
	// evidence exists, recording the embedding failure when present.
	errDetail := ""
	if semErr != nil {
		errDetail = semErr.Error()
	}
	return r.guard(r.ruleOnly(source, ruleResults, errDetail))
}

// ruleOnly decides on rule evidence alone. Used both for the
// high-confidence shortcut and the embedding-failure fallback; in the
// latter case the confidence floor still applies.
func (r *Resolver) ruleOnly(source string, ruleResults map[string]model.RuleMatchResult, errDetail string) model.Decision {
	scores := make(map[string]float64, len(r.names))
	for _, name := range r.names {
		scores[name] = ruleResults[name].Score
	}

	chosen, confidence, runnerUp, margin := r.pick(scores)

	trace := model.Trace{
		Scores:       r.traceScores(ruleResults, nil),
		MatchedRules: matchedRules(ruleResults),
		RunnerUp:     runnerUp,
		Margin:       margin,
		Error:        errDetail,
	}

	if confidence < r.cfg.Floor {
		trace.Stage = model.StageUnclassified
		return model.Decision{
			Source:     source,
			Category:   model.CategoryUnclassified,
			Confidence: confidence,
			Stage:      model.StageUnclassified,
			Trace:      trace,
		}
	}

	trace.Stage = model.StageRuleOnly
	return model.Decision{
		Source:     source,
		Category:   chosen,
		Confidence: confidence,
		Stage:      model.StageRuleOnly,
		Trace:      trace,
	}
}

// blended combines the two signals: alpha*rule + (1-alpha)*semantic.
// Negative cosine similarity contributes zero rather than a penalty.
func (r *Resolver) blended(source string, ruleResults map[string]model.RuleMatchResult, semScores map[string]model.SemanticScore) model.Decision {
	alpha := r.cfg.Alpha

	scores := make(map[string]float64, len(r.names))
	for _, name := range r.names {
		sem := clampPositive(semScores[name].Similarity)
		scores[name] = alpha*ruleResults[name].Score + (1-alpha)*sem
	}

	chosen, confidence, runnerUp, margin := r.pick(scores)

	trace := model.Trace{
		Scores:       r.traceScores(ruleResults, semScores),
		MatchedRules: matchedRules(ruleResults),
		RunnerUp:     runnerUp,
		Margin:       margin,
	}

	if confidence < r.cfg.Floor {
		trace.Stage = model.StageUnclassified
		return model.Decision{
			Source:     source,
			Category:   model.CategoryUnclassified,
			Confidence: confidence,
			Stage:      model.StageUnclassified,
			Trace:      trace,
		}
	}

	trace.Stage = model.StageBlended
	return model.Decision{
		Source:     source,
		Category:   chosen,
		Confidence: confidence,
		Stage:      model.StageBlended,
		Trace:      trace,
	}
}

// pick selects the winning category deterministically: among all
// categories within TieEpsilon of the top score, the lexicographically
// smallest name wins. Iteration is over the sorted name slice, never a
// map, so the choice is reproducible across runs.
func (r *Resolver) pick(scores map[string]float64) (chosen string, score float64, runnerUp string, margin float64) {
	if len(r.names) == 0 {
		return model.CategoryUnclassified, 0, "", 0
	}

	top := 0.0
	for _, name := range r.names {
		if scores[name] > top {
			top = scores[name]
		}
	}

	for _, name := range r.names {
		if scores[name] >= top-r.cfg.TieEpsilon {
			chosen = name
			score = scores[name]
			break
		}
	}

	runnerScore := 0.0
	for _, name := range r.names {
		if name == chosen {
			continue
		}
		if runnerUp == "" || scores[name] > runnerScore {
			runnerUp = name
			runnerScore = scores[name]
		}
	}

	return chosen, score, runnerUp, score - runnerScore
}

// topTwoRuleScores returns the best and second-best rule aggregates
func (r *Resolver) topTwoRuleScores(ruleResults map[string]model.RuleMatchResult) (top, runner float64) {
	for _, name := range r.names {
		s := ruleResults[name].Score
		if s > top {
			runner = top
			top = s
		} else if s > runner {
			runner = s
		}
	}
	return top, runner
}

// guard enforces the data-model invariant: the chosen category must be
// a configured category or the Unclassified sentinel. A violation is an
// internal defect, reported as a failed decision rather than a panic.
func (r *Resolver) guard(d model.Decision) model.Decision {
	if d.Category == model.CategoryUnclassified {
		return d
	}
	i := sort.SearchStrings(r.names, d.Category)
	if i < len(r.names) && r.names[i] == d.Category {
		return d
	}

	verr := &model.ValidationError{
		Detail: fmt.Sprintf("decision for %s names unknown category %q", d.Source, d.Category),
	}
	d.Category = model.CategoryUnclassified
	d.Confidence = 0
	d.Stage = model.StageFailed
	d.Trace.Stage = model.StageFailed
	d.Trace.Error = verr.Error()
	return d
}

func (r *Resolver) traceScores(ruleResults map[string]model.RuleMatchResult, semScores map[string]model.SemanticScore) map[string]model.CategoryScore {
	alpha := r.cfg.Alpha
	out := make(map[string]model.CategoryScore, len(r.names))

	for _, name := range r.names {
		cs := model.CategoryScore{Rule: ruleResults[name].Score}
		if semScores != nil {
			sim := semScores[name].Similarity
			cs.Semantic = &sim
			cs.Combined = alpha*cs.Rule + (1-alpha)*clampPositive(sim)
		} else {
			cs.Combined = cs.Rule
		}
		out[name] = cs
	}
	return out
}

func matchedRules(ruleResults map[string]model.RuleMatchResult) map[string][]string {
	out := make(map[string][]string)
	for name, res := range ruleResults {
		if len(res.Matched) > 0 {
			matched := make([]string, len(res.Matched))
			copy(matched, res.Matched)
			sort.Strings(matched)
			out[name] = matched
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func clampPositive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
