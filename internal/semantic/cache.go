package semantic

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds the number of cached embeddings.
const DefaultCacheSize = 1000

// Cache memoizes text to vector lookups.
type Cache interface {
	Get(key string) ([]float32, bool)
	Set(key string, vec []float32)
}

// LRUCache is a bounded, concurrency-safe cache that evicts the least recently
// used entry once full.
type LRUCache struct {
	entries *lru.Cache[string, []float32]
}

func NewLRUCache(size int) *LRUCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, []float32](size)
	return &LRUCache{entries: entries}
}

func (c *LRUCache) Get(key string) ([]float32, bool) {
	return c.entries.Get(key)
}

func (c *LRUCache) Set(key string, vec []float32) {
	c.entries.Add(key, vec)
}

func (c *LRUCache) Len() int {
	return c.entries.Len()
}

// Embedder serves embeddings from the cache and fills misses from the provider.
// Concurrent misses for the same text share one provider call, which runs
// detached from any single caller so one cancelled request does not fail the
// others waiting on it. Failures are never cached.
type Embedder struct {
	provider     Provider
	cache        Cache
	group        singleflight.Group
	fetchTimeout time.Duration
}

func NewEmbedder(provider Provider, cache Cache) *Embedder {
	if provider == nil {
		provider = DisabledProvider{}
	}
	if cache == nil {
		cache = NewLRUCache(DefaultCacheSize)
	}
	return &Embedder{provider: provider, cache: cache, fetchTimeout: DefaultTimeout}
}

// NormalizeKey is the cache key for a text.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Embedding returns the vector for text or ErrUnavailable. The caller stops
// waiting when its own ctx ends; the shared fetch keeps its own deadline.
func (e *Embedder) Embedding(ctx context.Context, text string) ([]float32, error) {
	key := NormalizeKey(text)
	if vec, ok := e.cache.Get(key); ok {
		return vec, nil
	}

	ch := e.group.DoChan(key, func() (any, error) {
		if vec, ok := e.cache.Get(key); ok {
			return vec, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.fetchTimeout)
		defer cancel()
		vec, err := e.provider.Embed(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, ErrUnavailable
		}
		e.cache.Set(key, vec)
		return vec, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]float32), nil
	}
}

// Available reports whether a provider is configured at all.
func (e *Embedder) Available() bool {
	return !IsDisabled(e.provider)
}
