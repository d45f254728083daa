// Package cache provides a layered memory+disk cache used to avoid
// re-embedding unchanged document text across runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey derives a cache key from the embedding model and the
// exact text that was embedded. Any change to either yields a new key.
func EmbeddingKey(embeddingModel, text string) string {
	h := sha256.New()
	h.Write([]byte(embeddingModel))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "docsort-v1-" + hex.EncodeToString(h.Sum(nil))
}
