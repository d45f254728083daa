package embed

import (
	"context"

	"golang.org/x/time/rate"
)

// LimitedEmbedder bounds the request rate against the embedding API.
// Workers share one limiter so concurrency does not multiply traffic.
type LimitedEmbedder struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewLimitedEmbedder wraps inner with a token-bucket rate limit
func NewLimitedEmbedder(inner Embedder, requestsPerSecond float64, burst int) *LimitedEmbedder {
	if burst <= 0 {
		burst = 1
	}
	return &LimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped provider's name
func (e *LimitedEmbedder) Name() string {
	return e.inner.Name()
}

// Embed waits for rate clearance, then delegates
func (e *LimitedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.Embed(ctx, text)
}

// IsAvailable delegates without consuming rate budget
func (e *LimitedEmbedder) IsAvailable(ctx context.Context) bool {
	return e.inner.IsAvailable(ctx)
}

var _ Embedder = (*LimitedEmbedder)(nil)
