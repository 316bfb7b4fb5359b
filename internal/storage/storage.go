// Package storage provides persistent caching of provider embeddings.
package storage

// EmbeddingCache persists embeddings keyed by model and text so that
// identical texts are not re-embedded (and re-billed) across restarts.
// It caches provider responses only; retrieval state stays in memory.
type EmbeddingCache interface {
	// Get returns the cached vector for (model, text), with ok false on a miss.
	Get(model, text string) ([]float32, bool, error)
	// Put stores the vector for (model, text), replacing any previous value.
	Put(model, text string, vector []float32) error
	// Count returns the number of cached embeddings.
	Count() (int64, error)
	Close() error
}
