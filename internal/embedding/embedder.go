// Package embedding provides text embedding via remote providers, with
// batching, bounded concurrency, and caching.
package embedding

import (
	"context"
	"fmt"
)

// Credentials carries per-call provider credentials. They are supplied by the
// caller on every call and are never read from process-wide configuration.
// Providers that need no authentication accept the zero value.
type Credentials struct {
	APIKey string
}

// Embedder produces vector embeddings for text.
type Embedder interface {
	// Embed embeds a single text.
	Embed(ctx context.Context, creds Credentials, text string) ([]float32, error)
	// EmbedBatch embeds texts and returns one vector per input, in input
	// order. An empty input yields an empty result without a provider call.
	EmbedBatch(ctx context.Context, creds Credentials, texts []string) ([][]float32, error)
	// Dimensions returns the embedding width, or 0 when not yet known.
	Dimensions() int
	Close() error
}

// ProviderError reports a failed embedding provider call. StatusCode is zero
// for transport-level failures. The client never retries; callers decide.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s embedding request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s embedding request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s embedding request failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }
