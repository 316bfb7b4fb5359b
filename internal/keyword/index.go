// Package keyword provides the in-memory keyword index used for hybrid search.
package keyword

import "context"

// Index defines keyword search over ingested chunks. Keys are chunk keys,
// so keyword and semantic hits fuse at the same granularity.
type Index interface {
	Index(ctx context.Context, key, documentID, text string) error
	Search(ctx context.Context, query string, limit int) ([]*Result, error)
	Delete(ctx context.Context, key string) error
	// Count returns the number of indexed chunks.
	Count() (uint64, error)
	Close() error
}

// Result is a single keyword search hit.
type Result struct {
	Key   string
	Score float64
}
