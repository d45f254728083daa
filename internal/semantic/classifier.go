// Package semantic implements the embedding-similarity stage of the
// classifier: one document embedding compared against precomputed
// category centroids by cosine similarity.
package semantic

import (
	"context"
	"fmt"
	"math"

	"github.com/mpetrenko/docsort/internal/catalog"
	"github.com/mpetrenko/docsort/internal/embed"
	"github.com/mpetrenko/docsort/internal/model"
)

// Classifier scores documents against category centroids. Centroids
// are injected configuration, never computed at runtime.
type Classifier struct {
	embedder   embed.Embedder
	categories []model.Category
	chunkRunes int
}

// NewClassifier creates a classifier over the catalog's centroids.
// The catalog must have centroids for every category (enforced at load).
func NewClassifier(embedder embed.Embedder, cat *catalog.Catalog, chunkRunes int) (*Classifier, error) {
	if embedder == nil {
		return nil, fmt.Errorf("no embedding provider configured")
	}
	if !cat.HasCentroids() {
		return nil, fmt.Errorf("catalog has no centroid embeddings")
	}
	if chunkRunes <= 0 {
		chunkRunes = 8000
	}

	return &Classifier{
		embedder:   embedder,
		categories: cat.Categories,
		chunkRunes: chunkRunes,
	}, nil
}

// Score embeds the document text and returns the cosine similarity
// against every category centroid. A failure is reported as a
// *model.EmbeddingError; no score is ever fabricated.
func (c *Classifier) Score(ctx context.Context, doc *model.Document) (map[string]model.SemanticScore, error) {
	vec, err := c.embedDocument(ctx, doc)
	if err != nil {
		return nil, &model.EmbeddingError{Path: doc.Path, Err: err}
	}

	scores := make(map[string]model.SemanticScore, len(c.categories))
	for _, cat := range c.categories {
		scores[cat.Name] = model.SemanticScore{
			Category:   cat.Name,
			Similarity: Cosine(vec, cat.Centroid),
		}
	}

	return scores, nil
}

// embedDocument computes one vector for the document. Long texts are
// split into fixed-size rune chunks, embedded individually, and
// averaged component-wise, so no tail is silently dropped.
func (c *Classifier) embedDocument(ctx context.Context, doc *model.Document) ([]float64, error) {
	if doc.Text == "" {
		return nil, fmt.Errorf("document has no extractable text")
	}

	chunks := chunkText(doc.Text, c.chunkRunes)
	if len(chunks) == 1 {
		return c.embedder.Embed(ctx, chunks[0])
	}

	var mean []float64
	for i, chunk := range chunks {
		vec, err := c.embedder.Embed(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if mean == nil {
			mean = make([]float64, len(vec))
		}
		if len(vec) != len(mean) {
			return nil, fmt.Errorf("chunk %d/%d: dimension %d, expected %d", i+1, len(chunks), len(vec), len(mean))
		}
		for j, v := range vec {
			mean[j] += v
		}
	}

	n := float64(len(chunks))
	for j := range mean {
		mean[j] /= n
	}
	return mean, nil
}

// chunkText splits s into rune chunks of at most n runes. The split is
// purely positional and therefore deterministic.
func chunkText(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}

	var chunks []string
	for start := 0; start < len(runes); start += n {
		end := start + n
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Mismatched or zero-norm vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
