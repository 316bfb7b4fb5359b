// Package models defines core data structures for documents, chunks, and search results.
package models

import (
	"fmt"
	"time"
)

// Document represents an ingested document. Chunk text lives in the vector
// store; the document record keeps identity and bookkeeping only.
type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Source     string    `json:"source,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Chunk is a contiguous piece of a document produced by the chunker.
// Ordinals are contiguous and start at 0 within a document.
type Chunk struct {
	Key        string    `json:"key"`
	DocumentID string    `json:"document_id"`
	Ordinal    int       `json:"ordinal"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"-"`
}

// DocumentInput is the input for ingesting a raw-text document. Source names
// where the text came from (a file path or upload name) when known.
type DocumentInput struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title,omitempty"`
	Source  string `json:"source,omitempty"`
	Content string `json:"content"`
}

// ChunkKey returns the store key for a chunk: "{documentID}:{ordinal}".
// Every chunk in the store is addressed by this key.
func ChunkKey(documentID string, ordinal int) string {
	return fmt.Sprintf("%s:%d", documentID, ordinal)
}
