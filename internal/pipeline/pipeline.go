// Package pipeline orchestrates the per-document classification flow:
// extract, rule evaluation, optional semantic scoring, resolution.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/embed"
	"github.com/mpetrenko/docsort/internal/extract"
	"github.com/mpetrenko/docsort/internal/model"
	"github.com/mpetrenko/docsort/internal/resolve"
	"github.com/mpetrenko/docsort/internal/rules"
	"github.com/mpetrenko/docsort/internal/semantic"
)

// Pipeline runs the classification stages for single documents.
// All fields are read-only after construction; one Pipeline is shared
// by every worker.
type Pipeline struct {
	extractors *extract.Registry
	engine     *rules.Engine
	classifier *semantic.Classifier // nil when the semantic stage is unavailable
	resolver   *resolve.Resolver
	config     *model.Config
}

// NewPipeline wires the pipeline from configuration. The semantic
// classifier is built only when an embedding provider is configured and
// the catalog carries centroids; otherwise decisions rest on rules.
func NewPipeline(cfg *model.Config, cat *catalog.Catalog, embedder embed.Embedder) (*Pipeline, error) {
	engine, err := rules.NewEngine(cat)
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	var classifier *semantic.Classifier
	if embedder != nil && cat.HasCentroids() {
		classifier, err = semantic.NewClassifier(embedder, cat, cfg.Embedding.ChunkRunes)
		if err != nil {
			return nil, fmt.Errorf("semantic classifier: %w", err)
		}
	} else if cfg.Output.Verbose {
		switch {
		case embedder == nil && cat.HasCentroids():
			fmt.Fprintln(os.Stderr, "Note: catalog has centroids but no embedding provider is configured; semantic stage disabled")
		case embedder != nil && !cat.HasCentroids():
			fmt.Fprintln(os.Stderr, "Note: embedding provider configured but catalog has no centroids; semantic stage disabled")
		}
	}

	return &Pipeline{
		extractors: extract.NewRegistry(),
		engine:     engine,
		classifier: classifier,
		resolver:   resolve.NewResolver(cfg.Resolver, cat),
		config:     cfg,
	}, nil
}

// Extensions returns the supported document extensions
func (p *Pipeline) Extensions() []string {
	return p.extractors.Extensions()
}

// ProcessFile classifies one document. It never returns an error:
// per-document failures become failed Decisions so the batch carries on.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) *model.Decision {
	doc, err := p.extractors.Extract(ctx, path)
	if err != nil {
		return failedDecision(path, err)
	}

	ruleResults := p.engine.Evaluate(doc)

	var semScores map[string]model.SemanticScore
	var semErr error

	if p.classifier != nil && p.resolver.NeedsSemantic(ruleResults) {
		embedCtx := ctx
		if p.config.Embedding.Timeout > 0 {
			var cancel context.CancelFunc
			embedCtx, cancel = context.WithTimeout(ctx, p.config.Embedding.Timeout)
			defer cancel()
		}
		semScores, semErr = p.classifier.Score(embedCtx, doc)
	}

	decision := p.resolver.Resolve(path, ruleResults, semScores, semErr)
	return &decision
}

// failedDecision records an unrecoverable per-document error
func failedDecision(path string, err error) *model.Decision {
	return &model.Decision{
		Source:     path,
		Category:   model.CategoryUnclassified,
		Confidence: 0,
		Stage:      model.StageFailed,
		Trace: model.Trace{
			Stage: model.StageFailed,
			Error: err.Error(),
		},
	}
}
