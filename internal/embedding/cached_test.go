package embedding

import (
	"context"
	"sync/atomic"
	"testing"
)

// countingEmbedder wraps MockEmbedder and counts texts that reach it.
type countingEmbedder struct {
	*MockEmbedder
	embedded atomic.Int64
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, creds Credentials, texts []string) ([][]float32, error) {
	c.embedded.Add(int64(len(texts)))
	return c.MockEmbedder.EmbedBatch(ctx, creds, texts)
}

// mapCache is an in-memory storage.EmbeddingCache for tests.
type mapCache struct {
	entries map[string][]float32
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string][]float32)} }

func (m *mapCache) Get(model, text string) ([]float32, bool, error) {
	vec, ok := m.entries[model+"|"+text]
	return vec, ok, nil
}

func (m *mapCache) Put(model, text string, vector []float32) error {
	m.entries[model+"|"+text] = vector
	return nil
}

func (m *mapCache) Count() (int64, error) { return int64(len(m.entries)), nil }
func (m *mapCache) Close() error          { return nil }

func TestCachedEmbedder_MissesOnlyReachProvider(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(inner, 16, nil, "mock")
	ctx := context.Background()

	first, err := c.EmbedBatch(ctx, Credentials{}, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.embedded.Load() != 3 {
		t.Fatalf("provider saw %d texts, want 3", inner.embedded.Load())
	}

	// Two hits, one new miss.
	second, err := c.EmbedBatch(ctx, Credentials{}, []string{"c", "d", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if inner.embedded.Load() != 4 {
		t.Errorf("provider saw %d texts, want 4 (only the miss)", inner.embedded.Load())
	}

	// Hits must land at their input positions.
	if !equalVec(second[0], first[2]) {
		t.Error("cached vector for c not returned in position 0")
	}
	if !equalVec(second[2], first[0]) {
		t.Error("cached vector for a not returned in position 2")
	}
}

func TestCachedEmbedder_PersistentLayer(t *testing.T) {
	persistent := newMapCache()
	ctx := context.Background()

	first := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	c1 := NewCachedEmbedder(first, 16, persistent, "mock")
	if _, err := c1.EmbedBatch(ctx, Credentials{}, []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	if n, _ := persistent.Count(); n != 2 {
		t.Fatalf("persistent cache holds %d entries, want 2", n)
	}

	// A fresh embedder with a cold LRU should resolve from the persistent layer.
	second := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	c2 := NewCachedEmbedder(second, 16, persistent, "mock")
	if _, err := c2.EmbedBatch(ctx, Credentials{}, []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	if second.embedded.Load() != 0 {
		t.Errorf("provider saw %d texts, want 0 (persistent hits)", second.embedded.Load())
	}
}

func equalVec(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
