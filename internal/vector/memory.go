package vector

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore implements Store with a map plus an insertion-order list.
// Insert and Delete are O(1) and O(n); Query is an exhaustive O(n*d) scan.
// All operations are safe for concurrent use; readers see a consistent
// snapshot while writers replace entries.
type MemoryStore struct {
	mu      sync.RWMutex
	dims    int
	entries map[string]Entry
	order   []string
}

// NewMemoryStore creates a store. dims fixes the expected vector length;
// pass 0 to let the first insert decide.
func NewMemoryStore(dims int) *MemoryStore {
	return &MemoryStore{
		dims:    dims,
		entries: make(map[string]Entry),
	}
}

// Insert stores entry under entry.Key, replacing any previous entry with the
// same key. A replaced key keeps its original insertion position. The first
// insert fixes the store's dimensionality when it was created with dims 0.
func (m *MemoryStore) Insert(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dims == 0 && len(m.entries) == 0 {
		m.dims = len(entry.Vector)
	}
	if len(entry.Vector) != m.dims {
		return fmt.Errorf("%w: got %d, expected %d", ErrDimensionMismatch, len(entry.Vector), m.dims)
	}

	vec := make([]float32, len(entry.Vector))
	copy(vec, entry.Vector)
	entry.Vector = vec

	if _, exists := m.entries[entry.Key]; !exists {
		m.order = append(m.order, entry.Key)
	}
	m.entries[entry.Key] = entry
	return nil
}

// Query scans every entry, scores it against query with cosine similarity,
// and returns the top min(k, Len()) results in descending score order. Equal
// scores rank the earlier-inserted entry first. An empty store yields an
// empty result.
func (m *MemoryStore) Query(query []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, k)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return []Result{}, nil
	}
	if len(query) != m.dims {
		return nil, fmt.Errorf("%w: query has %d, store has %d", ErrDimensionMismatch, len(query), m.dims)
	}

	results := make([]Result, 0, len(m.order))
	for _, key := range m.order {
		e := m.entries[key]
		results = append(results, Result{
			Key:        e.Key,
			DocumentID: e.DocumentID,
			Ordinal:    e.Ordinal,
			Text:       e.Text,
			Score:      CosineSimilarity(query, e.Vector),
		})
	}
	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Delete removes key and reports whether it was present.
func (m *MemoryStore) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the entry stored under key.
func (m *MemoryStore) Get(key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		return Entry{}, false
	}
	vec := make([]float32, len(e.Vector))
	copy(vec, e.Vector)
	e.Vector = vec
	return e, true
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Dimensions returns the store's vector length, or 0 when not yet fixed.
func (m *MemoryStore) Dimensions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dims
}
