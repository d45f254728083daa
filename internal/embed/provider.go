// Package embed provides embedding providers for the semantic
// classifier, behind a single Embedder interface.
package embed

import (
	"context"
	"time"
)

// Embedder computes an embedding vector for a piece of text
type Embedder interface {
	// Name returns the provider name
	Name() string

	// Embed returns the embedding vector for text. It never fabricates
	// a vector: any failure is returned as an error.
	Embed(ctx context.Context, text string) ([]float64, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config holds embedding provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama, OpenAI-compatible proxies)
	BaseURL string

	// Timeout per embedding request
	Timeout time.Duration
}

// DefaultModel returns the provider's conventional embedding model,
// used when no model is configured.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return "text-embedding-3-small"
	case "ollama":
		return "nomic-embed-text"
	default:
		return ""
	}
}
