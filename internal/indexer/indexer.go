// Package indexer provides document ingestion: chunking, embedding, and
// population of the vector store and keyword index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotaeru/internal/embedding"
	"github.com/hyperjump/kotaeru/internal/keyword"
	"github.com/hyperjump/kotaeru/internal/models"
	"github.com/hyperjump/kotaeru/internal/vector"
)

// ErrNotFound is returned when a document id is not in the registry.
var ErrNotFound = errors.New("document not found")

// Indexer ingests documents. Ingestion is atomic per document: either every
// chunk of the document is committed to the vector store or none is.
type Indexer struct {
	store    vector.Store
	embedder embedding.Embedder
	keywords keyword.Index
	chunker  *Chunker
	logger   *zap.Logger

	// mu serializes commits and guards the registry. Embedding happens
	// outside the lock so concurrent ingests overlap on the network.
	mu   sync.Mutex
	docs map[string]*models.Document
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets the logger used for ingest progress and failures.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(ix *Indexer) { ix.logger = l }
}

// NewIndexer creates an Indexer over the given store, embedder, and keyword
// index.
func NewIndexer(store vector.Store, embedder embedding.Embedder, keywords keyword.Index, chunker *Chunker, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		store:    store,
		embedder: embedder,
		keywords: keywords,
		chunker:  chunker,
		logger:   zap.NewNop(),
		docs:     make(map[string]*models.Document),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// IndexDocument chunks, embeds, and stores a document, returning the number
// of chunks committed. Re-ingesting an existing id replaces the previous
// version, including removal of stale higher ordinals. An empty document
// ingests successfully with zero chunks and no provider call.
func (ix *Indexer) IndexDocument(ctx context.Context, creds embedding.Credentials, input models.DocumentInput) (int, error) {
	if input.ID == "" {
		return 0, fmt.Errorf("document id is required")
	}

	chunks := ix.chunker.Chunk(input.ID, input.Content)

	var vectors [][]float32
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}
		var err error
		vectors, err = ix.embedder.EmbedBatch(ctx, creds, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(chunks) {
			return 0, fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(vectors), len(chunks))
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	inserted := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		err := ix.store.Insert(vector.Entry{
			Key:        chunk.Key,
			DocumentID: chunk.DocumentID,
			Ordinal:    chunk.Ordinal,
			Text:       chunk.Text,
			Vector:     vectors[i],
		})
		if err != nil {
			for _, key := range inserted {
				ix.store.Delete(key)
			}
			return 0, fmt.Errorf("failed to store chunk %s: %w", chunk.Key, err)
		}
		inserted = append(inserted, chunk.Key)
	}

	// Keyword indexing is a search enhancement; a failure there must not
	// undo a committed ingest.
	for _, chunk := range chunks {
		if err := ix.keywords.Index(ctx, chunk.Key, chunk.DocumentID, chunk.Text); err != nil {
			ix.logger.Warn("failed to index chunk for keyword search",
				zap.String("chunk", chunk.Key), zap.Error(err))
		}
	}

	prev := ix.docs[input.ID]
	if prev != nil && prev.ChunkCount > len(chunks) {
		for ordinal := len(chunks); ordinal < prev.ChunkCount; ordinal++ {
			key := models.ChunkKey(input.ID, ordinal)
			ix.store.Delete(key)
			_ = ix.keywords.Delete(ctx, key)
		}
	}

	now := time.Now()
	doc := &models.Document{
		ID:         input.ID,
		Title:      input.Title,
		Source:     input.Source,
		ChunkCount: len(chunks),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if prev != nil {
		doc.CreatedAt = prev.CreatedAt
	}
	ix.docs[input.ID] = doc

	ix.logger.Info("document indexed",
		zap.String("document_id", input.ID),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// DeleteDocument removes every chunk of the document from the vector store
// and keyword index. It reports whether the document was present.
func (ix *Indexer) DeleteDocument(ctx context.Context, id string) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	doc, ok := ix.docs[id]
	if !ok {
		return false
	}
	for ordinal := 0; ordinal < doc.ChunkCount; ordinal++ {
		key := models.ChunkKey(id, ordinal)
		ix.store.Delete(key)
		_ = ix.keywords.Delete(ctx, key)
	}
	delete(ix.docs, id)

	ix.logger.Info("document deleted",
		zap.String("document_id", id),
		zap.Int("chunks", doc.ChunkCount))
	return true
}

// Document returns the registry record for id, or ErrNotFound.
func (ix *Indexer) Document(id string) (*models.Document, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	doc, ok := ix.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copied := *doc
	return &copied, nil
}

// Documents lists all registered documents sorted by id.
func (ix *Indexer) Documents() []*models.Document {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	out := make([]*models.Document, 0, len(ix.docs))
	for _, doc := range ix.docs {
		copied := *doc
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats returns the number of registered documents and stored chunks.
func (ix *Indexer) Stats() (documents, chunks int) {
	ix.mu.Lock()
	documents = len(ix.docs)
	ix.mu.Unlock()
	return documents, ix.store.Len()
}
