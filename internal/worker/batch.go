package worker

import (
	"context"

	"github.com/mpetrenko/docsort/internal/model"
)

// Processor classifies a single document. The pipeline implements it.
type Processor interface {
	ProcessFile(ctx context.Context, path string) *model.Decision
}

// ClassifyJob classifies one document path
type ClassifyJob struct {
	Path      string
	Processor Processor
}

// Execute runs the classification
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	return &ClassifyResult{
		Path:     j.Path,
		Decision: j.Processor.ProcessFile(ctx, j.Path),
	}
}

// ClassifyResult carries one document's decision out of the pool
type ClassifyResult struct {
	Path     string
	Decision *model.Decision
}

// GetError is always nil: per-document failures are recorded inside
// the Decision and must not look like pool-level errors.
func (r *ClassifyResult) GetError() error {
	return nil
}

// BatchProcessor classifies many documents concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// Process classifies all paths and returns one Decision per document.
// Result order is not defined; callers sort before reporting.
func (b *BatchProcessor) Process(ctx context.Context, paths []string) []*model.Decision {
	if len(paths) == 0 {
		return []*model.Decision{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submission and draining must overlap: both pool queues are
	// bounded, so queueing every path up front would stall on large
	// batches.
	go func() {
		for _, path := range paths {
			pool.Submit(&ClassifyJob{Path: path, Processor: b.processor})
		}
		pool.Done()
	}()

	decisions := make([]*model.Decision, 0, len(paths))
	for result := range pool.Results() {
		decisions = append(decisions, result.(*ClassifyResult).Decision)
	}

	return decisions
}
