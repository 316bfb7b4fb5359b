// Package vector provides the keyed in-memory vector store and similarity search.
package vector

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length does not match
	// the store's dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidK is returned when a query asks for a non-positive number of results.
	ErrInvalidK = errors.New("k must be positive")
)

// Entry is a stored vector with its chunk payload.
type Entry struct {
	Key        string
	DocumentID string
	Ordinal    int
	Text       string
	Vector     []float32
}

// Result is a single query hit.
type Result struct {
	Key        string
	DocumentID string
	Ordinal    int
	Text       string
	Score      float64
}

// Store defines keyed vector storage with exhaustive similarity search.
// Inserting an existing key replaces its entry (last write wins). Query
// returns up to k results in descending similarity; ties go to the entry
// inserted earlier.
type Store interface {
	Insert(entry Entry) error
	Query(query []float32, k int) ([]Result, error)
	Delete(key string) bool
	Get(key string) (Entry, bool)
	Len() int
	Dimensions() int
}
