package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mpetrenko/docsort/internal/cache"
)

// CachedEmbedder wraps an Embedder with a vector cache keyed on
// (model, text). Cache failures degrade to direct embedding.
type CachedEmbedder struct {
	inner Embedder
	store cache.Cache
	model string
	ttl   time.Duration
}

// NewCachedEmbedder creates a caching wrapper around inner
func NewCachedEmbedder(inner Embedder, store cache.Cache, modelName string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		store: store,
		model: modelName,
		ttl:   ttl,
	}
}

// Name returns the wrapped provider's name
func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// Embed returns a cached vector when available, otherwise delegates
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.EmbeddingKey(e.model, text)

	if data, ok := e.store.Get(key); ok {
		var vec []float64
		if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
			return vec, nil
		}
		// Corrupt entry: drop and fall through to the provider
		_ = e.store.Delete(key)
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(vec); err == nil {
		if err := e.store.Set(key, data, e.ttl); err != nil {
			// Caching is best-effort; the vector is still valid
			return vec, nil
		}
	}

	return vec, nil
}

// IsAvailable delegates to the wrapped provider
func (e *CachedEmbedder) IsAvailable(ctx context.Context) bool {
	return e.inner.IsAvailable(ctx)
}

var _ Embedder = (*CachedEmbedder)(nil)

// String describes the wrapper for verbose output
func (e *CachedEmbedder) String() string {
	return fmt.Sprintf("cached(%s/%s)", e.inner.Name(), e.model)
}
