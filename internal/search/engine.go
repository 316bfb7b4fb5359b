// Package search provides retrieval over the vector store and keyword
// index: a semantic-only path that feeds generation context, and hybrid
// search for the query API.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hyperjump/kotaeru/internal/embedding"
	"github.com/hyperjump/kotaeru/internal/keyword"
	"github.com/hyperjump/kotaeru/internal/models"
	"github.com/hyperjump/kotaeru/internal/vector"
)

// topKCandidates is the per-leg candidate pool for hybrid fusion. Pulling
// more candidates than requested lets a chunk ranked low by one leg still
// surface when the other leg ranks it high.
const topKCandidates = 50

// Config holds fusion weights and the score floor for hybrid search.
type Config struct {
	KeywordWeight  float64
	SemanticWeight float64
	MinScore       float64
}

// Engine answers retrieval queries against the vector store and keyword
// index.
type Engine struct {
	store    vector.Store
	embedder embedding.Embedder
	keywords keyword.Index
	config   Config
}

// NewEngine creates an engine over the given store, embedder, and keyword
// index. Zero weights fall back to the 0.3 keyword / 0.7 semantic split.
func NewEngine(store vector.Store, embedder embedding.Embedder, keywords keyword.Index, cfg Config) *Engine {
	if cfg.KeywordWeight <= 0 && cfg.SemanticWeight <= 0 {
		cfg.KeywordWeight = 0.3
		cfg.SemanticWeight = 0.7
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		keywords: keywords,
		config:   cfg,
	}
}

// Retrieve embeds the query and returns the k most similar chunks by cosine
// similarity. This is the semantic-only path the chat pipeline uses to build
// generation context.
func (e *Engine) Retrieve(ctx context.Context, creds embedding.Credentials, query string, k int) ([]*models.ScoredChunk, error) {
	queryEmbedding, err := e.embedder.Embed(ctx, creds, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	results, err := e.store.Query(queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	chunks := make([]*models.ScoredChunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, &models.ScoredChunk{
			Key:           r.Key,
			DocumentID:    r.DocumentID,
			Ordinal:       r.Ordinal,
			Text:          r.Text,
			Score:         r.Score,
			SemanticScore: r.Score,
		})
	}
	return chunks, nil
}

// Search runs the requested mode and returns fused chunk-level results. In
// hybrid mode the keyword and semantic legs run concurrently; either leg
// failing fails the search.
func (e *Engine) Search(ctx context.Context, creds embedding.Credentials, req *models.SearchRequest) (*models.SearchResponse, error) {
	startTime := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates := topKCandidates
	if req.K > candidates {
		candidates = req.K
	}

	var (
		keywordResults  []*keyword.Result
		semanticResults []vector.Result
		errChan         = make(chan error, 2)
		wg              sync.WaitGroup
	)

	if req.Mode == models.ModeHybrid || req.Mode == models.ModeKeyword {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := e.keywords.Search(ctx, req.Query, candidates)
			if err != nil {
				errChan <- fmt.Errorf("keyword search failed: %w", err)
				return
			}
			keywordResults = results
		}()
	}

	if req.Mode == models.ModeHybrid || req.Mode == models.ModeSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queryEmbedding, err := e.embedder.Embed(ctx, creds, req.Query)
			if err != nil {
				errChan <- fmt.Errorf("failed to embed query: %w", err)
				return
			}
			results, err := e.store.Query(queryEmbedding, candidates)
			if err != nil {
				errChan <- fmt.Errorf("vector query failed: %w", err)
				return
			}
			semanticResults = results
		}()
	}

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	keywordWeight, semanticWeight := e.config.KeywordWeight, e.config.SemanticWeight
	switch req.Mode {
	case models.ModeKeyword:
		keywordWeight, semanticWeight = 1, 0
	case models.ModeSemantic:
		keywordWeight, semanticWeight = 0, 1
	}

	fused := Fuse(NormalizeKeywordScores(keywordResults), SemanticScoresByKey(semanticResults), keywordWeight, semanticWeight)

	minScore := e.config.MinScore
	if req.MinScore > 0 {
		minScore = req.MinScore
	}
	if minScore > 0 {
		kept := fused[:0]
		for _, f := range fused {
			if f.Score >= minScore {
				kept = append(kept, f)
			}
		}
		fused = kept
	}

	limit := req.K
	if limit > len(fused) {
		limit = len(fused)
	}

	byKey := make(map[string]vector.Result, len(semanticResults))
	for _, r := range semanticResults {
		byKey[r.Key] = r
	}

	results := make([]*models.ScoredChunk, 0, limit)
	for _, f := range fused[:limit] {
		chunk, ok := e.chunkForKey(f.Key, byKey)
		if !ok {
			continue
		}
		chunk.Score = f.Score
		chunk.KeywordScore = f.KeywordScore
		chunk.SemanticScore = f.SemanticScore
		results = append(results, chunk)
	}

	return &models.SearchResponse{
		Query:     req.Query,
		Mode:      req.Mode,
		Results:   results,
		Total:     len(fused),
		QueryTime: time.Since(startTime).Milliseconds(),
	}, nil
}

// chunkForKey resolves a fused key to chunk metadata, preferring the
// semantic result set over a store lookup. A key known only to the keyword
// index but gone from the store is skipped.
func (e *Engine) chunkForKey(key string, byKey map[string]vector.Result) (*models.ScoredChunk, bool) {
	if r, ok := byKey[key]; ok {
		return &models.ScoredChunk{
			Key:        r.Key,
			DocumentID: r.DocumentID,
			Ordinal:    r.Ordinal,
			Text:       r.Text,
		}, true
	}
	entry, ok := e.store.Get(key)
	if !ok {
		return nil, false
	}
	return &models.ScoredChunk{
		Key:        entry.Key,
		DocumentID: entry.DocumentID,
		Ordinal:    entry.Ordinal,
		Text:       entry.Text,
	}, true
}

// BuildContext renders retrieved chunks as a prompt context block. Every
// chunk is prefixed with a source line naming its document and position so
// the model can attribute answers; blocks are separated by blank lines.
func BuildContext(chunks []*models.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[source doc:%s chunk:%d]\n", chunk.DocumentID, chunk.Ordinal)
		b.WriteString(chunk.Text)
	}
	return b.String()
}
