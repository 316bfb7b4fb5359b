package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultOllamaBaseURL    = "http://localhost:11434"
	defaultOllamaEmbedModel = "nomic-embed-text"
)

// OllamaConfig configures an OllamaEmbedder.
type OllamaConfig struct {
	BaseURL     string
	Model       string
	Concurrency int
	Timeout     time.Duration
}

// OllamaEmbedder calls an Ollama /api/embeddings endpoint. Ollama embeds one
// prompt per request, so batches fan out across bounded concurrent requests
// and results are placed back at their input positions. Ollama requires no
// credentials; the creds argument is ignored.
type OllamaEmbedder struct {
	baseURL     string
	model       string
	concurrency int
	client      *http.Client

	mu   sync.Mutex
	dims int
}

// NewOllamaEmbedder creates an embedder for a local Ollama instance.
func NewOllamaEmbedder(cfg OllamaConfig) *OllamaEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOllamaEmbedModel
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OllamaEmbedder{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		concurrency: cfg.Concurrency,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

// Embed embeds a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, _ Credentials, text string) ([]float32, error) {
	return e.embedOne(ctx, text)
}

// EmbedBatch embeds each text in a separate request with bounded concurrency
// and returns the vectors in input order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, _ Credentials, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, len(texts))
	var wg sync.WaitGroup
	errChan := make(chan error, len(texts))
	sem := make(chan struct{}, e.concurrency)

	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vec, err := e.embedOne(ctx, text)
			if err != nil {
				errChan <- err
				return
			}
			out[i] = vec
		}(i, text)
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Dimensions returns the embedding width observed on the first successful
// call, or 0 before that.
func (e *OllamaEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// Close is a no-op.
func (e *OllamaEmbedder) Close() error { return nil }

func (e *OllamaEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(map[string]string{"model": e.model, "prompt": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "ollama", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ProviderError{Provider: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var parsed struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Provider: "ollama", Message: "invalid response body", Err: err}
	}
	if len(parsed.Embedding) == 0 {
		return nil, &ProviderError{Provider: "ollama", Message: "empty embedding in response"}
	}

	e.mu.Lock()
	if e.dims == 0 {
		e.dims = len(parsed.Embedding)
	}
	e.mu.Unlock()

	return parsed.Embedding, nil
}
