package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"

	"direitofacil-backend/llm"
)

// CacheStats reports the state of the embedding cache
type CacheStats struct {
	Enabled     bool  `json:"enabled"`
	CurrentSize int   `json:"current_size"`
	MaxSize     int   `json:"max_size"`
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
}

// EmbeddingCache memoizes embedding provider calls keyed by a content hash of
// the input text. Eviction is strict insertion-order FIFO once maxSize is
// exceeded. When disabled, every call goes to the provider and nothing is
// stored.
type EmbeddingCache struct {
	provider llm.EmbeddingProvider
	enabled  bool
	maxSize  int

	mu      sync.Mutex
	entries map[string][]float32
	order   []string // insertion order, oldest first

	flight singleflight.Group

	hits   int64
	misses int64
}

// NewEmbeddingCache creates a cache in front of the given provider
func NewEmbeddingCache(provider llm.EmbeddingProvider, enabled bool, maxSize int) *EmbeddingCache {
	return &EmbeddingCache{
		provider: provider,
		enabled:  enabled,
		maxSize:  maxSize,
		entries:  make(map[string][]float32),
	}
}

// GetEmbedding returns the embedding for text, consulting the cache first.
// Provider errors propagate unchanged. Concurrent misses for the same key
// invoke the provider once; the provider call itself runs outside the lock.
func (c *EmbeddingCache) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if !c.enabled {
		return c.provider.Embed(ctx, text)
	}

	key := cacheKey(text)

	c.mu.Lock()
	if vec, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return vec, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		// Re-check: another flight may have inserted between unlock and Do
		c.mu.Lock()
		if vec, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return vec, nil
		}
		c.mu.Unlock()

		vec, err := c.provider.Embed(ctx, text)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.insertLocked(key, vec)
		c.mu.Unlock()
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// insertLocked stores a new entry and evicts the oldest-inserted one when the
// cache would exceed its maximum size. Caller holds c.mu.
func (c *EmbeddingCache) insertLocked(key string, vec []float32) {
	if _, ok := c.entries[key]; ok {
		return
	}
	c.entries[key] = vec
	c.order = append(c.order, key)
	for len(c.entries) > c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Stats returns a snapshot of the cache state
func (c *EmbeddingCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Enabled:     c.enabled,
		CurrentSize: len(c.entries),
		MaxSize:     c.maxSize,
		Hits:        c.hits,
		Misses:      c.misses,
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
