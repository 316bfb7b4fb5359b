package embedding

import (
	"context"

	"github.com/hyperjump/kotaeru/internal/storage"
)

// CachedEmbedder wraps an Embedder with an in-memory LRU and an optional
// persistent cache. Only cache misses reach the provider; results keep input
// order. Cache writes are best effort and never fail an embedding call.
type CachedEmbedder struct {
	inner      Embedder
	lru        *EmbeddingCache
	persistent storage.EmbeddingCache
	model      string
}

// NewCachedEmbedder wraps inner with caching. persistent may be nil to cache
// in memory only; model namespaces persistent entries so different embedding
// models never share vectors.
func NewCachedEmbedder(inner Embedder, lruEntries int, persistent storage.EmbeddingCache, model string) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		lru:        NewEmbeddingCache(lruEntries),
		persistent: persistent,
		model:      model,
	}
}

// Embed embeds a single text through the cache.
func (c *CachedEmbedder) Embed(ctx context.Context, creds Credentials, text string) ([]float32, error) {
	vecs, err := c.EmbedBatch(ctx, creds, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch resolves each text from the LRU, then the persistent cache, and
// sends only the remaining misses to the provider in one batch call.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, creds Credentials, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vec, ok := c.lru.Get(text); ok {
			out[i] = vec
			continue
		}
		if c.persistent != nil {
			if vec, ok, err := c.persistent.Get(c.model, text); err == nil && ok {
				c.lru.Set(text, vec)
				out[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.inner.EmbedBatch(ctx, creds, missTexts)
	if err != nil {
		return nil, err
	}
	for j, vec := range vecs {
		i := missIdx[j]
		out[i] = vec
		c.lru.Set(texts[i], vec)
		if c.persistent != nil {
			_ = c.persistent.Put(c.model, texts[i], vec)
		}
	}
	return out, nil
}

// Dimensions reports the inner embedder's dimensions.
func (c *CachedEmbedder) Dimensions() int { return c.inner.Dimensions() }

// Close closes the inner embedder and the persistent cache, if any.
func (c *CachedEmbedder) Close() error {
	err := c.inner.Close()
	if c.persistent != nil {
		if cerr := c.persistent.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
