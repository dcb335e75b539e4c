package embeddings

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// defaultCacheEntries bounds the cache; once full, new vectors are
// served but not retained.
const defaultCacheEntries = 4096

// Cache is a read-through, request-scoped-lifetime embedding cache.
// Concurrent callers asking for the same text share one in-flight
// provider call via singleflight instead of duplicating work.
type Cache struct {
	provider Provider
	max      int

	mu    sync.RWMutex
	vecs  map[string][]float32
	group singleflight.Group
}

// NewCache wraps a provider with an in-memory cache. maxEntries <= 0
// selects the default bound.
func NewCache(p Provider, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	return &Cache{provider: p, max: maxEntries, vecs: make(map[string][]float32)}
}

// Provider returns the wrapped provider.
func (c *Cache) Provider() Provider { return c.provider }

func (c *Cache) lookup(text string) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vecs[text]
	return v, ok
}

func (c *Cache) store(text string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.vecs) >= c.max {
		return
	}
	c.vecs[text] = vec
}

// Embed returns the embedding for a single text, computing it at most
// once across concurrent callers.
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.lookup(text); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(text, func() (any, error) {
		if v, ok := c.lookup(text); ok {
			return v, nil
		}
		vecs, err := c.provider.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, errBadBatch(1, len(vecs))
		}
		c.store(text, vecs[0])
		return vecs[0], nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// EmbedBatch returns one embedding per input text, fetching only the
// cache misses from the provider in a single batched call.
func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))
	seen := make(map[string]int)
	for i, t := range texts {
		if v, ok := c.lookup(t); ok {
			out[i] = v
			continue
		}
		if j, dup := seen[t]; dup {
			// duplicate miss within the batch; fill after fetch
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, texts[j])
			continue
		}
		seen[t] = i
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missTexts) == 0 {
		return out, nil
	}
	vecs, err := c.provider.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, errBadBatch(len(missTexts), len(vecs))
	}
	for k, i := range missIdx {
		out[i] = vecs[k]
		c.store(missTexts[k], vecs[k])
	}
	return out, nil
}

func errBadBatch(want, got int) error {
	return fmt.Errorf("embeddings: provider returned %d vectors for %d inputs", got, want)
}
