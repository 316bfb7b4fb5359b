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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"
)

// OpenAIConfig configures an OpenAIEmbedder. Zero fields fall back to
// defaults. Credentials are not part of the config; they arrive per call.
type OpenAIConfig struct {
	BaseURL       string
	Model         string
	MaxBatchSize  int // maximum texts per request
	MaxBatchChars int // maximum total characters per request
	Concurrency   int // maximum in-flight batch requests
	Timeout       time.Duration
}

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint. Large
// inputs are split into batches bounded by both text count and total
// characters; batches are dispatched concurrently and results are
// reassembled in input order.
type OpenAIEmbedder struct {
	baseURL       string
	model         string
	maxBatchSize  int
	maxBatchChars int
	concurrency   int
	client        *http.Client

	mu   sync.Mutex
	dims int
}

// NewOpenAIEmbedder creates an embedder for an OpenAI-compatible endpoint.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 64
	}
	if cfg.MaxBatchChars <= 0 {
		cfg.MaxBatchChars = 100000
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIEmbedder{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		model:         cfg.Model,
		maxBatchSize:  cfg.MaxBatchSize,
		maxBatchChars: cfg.MaxBatchChars,
		concurrency:   cfg.Concurrency,
		client:        &http.Client{Timeout: cfg.Timeout},
	}
}

// Embed embeds a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, creds Credentials, text string) ([]float32, error) {
	vecs, err := e.embedRequest(ctx, creds, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch splits texts into bounded batches, embeds them concurrently,
// and returns the vectors in input order.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, creds Credentials, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	spans := planBatches(texts, e.maxBatchSize, e.maxBatchChars)
	batchResults := make([][][]float32, len(spans))

	var wg sync.WaitGroup
	errChan := make(chan error, len(spans))
	sem := make(chan struct{}, e.concurrency)

	for i, span := range spans {
		wg.Add(1)
		go func(i int, span batchSpan) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			vecs, err := e.embedRequest(ctx, creds, texts[span.start:span.end])
			if err != nil {
				errChan <- err
				return
			}
			batchResults[i] = vecs
		}(i, span)
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	out := make([][]float32, 0, len(texts))
	for _, vecs := range batchResults {
		out = append(out, vecs...)
	}
	return out, nil
}

// Dimensions returns the embedding width observed on the first successful
// call, or 0 before that.
func (e *OpenAIEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dims
}

// Close is a no-op; the underlying http.Client needs no teardown.
func (e *OpenAIEmbedder) Close() error { return nil }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *OpenAIEmbedder) embedRequest(ctx context.Context, creds Credentials, batch []string) ([][]float32, error) {
	payload, err := json.Marshal(embeddingsRequest{Model: e.model, Input: batch})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embeddings request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build embeddings request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var parsed embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Provider: "openai", Message: "invalid response body", Err: err}
	}

	out := make([][]float32, len(batch))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(batch) {
			return nil, &ProviderError{Provider: "openai", Message: fmt.Sprintf("embedding index %d out of range", d.Index)}
		}
		out[d.Index] = d.Embedding
	}
	for i, vec := range out {
		if vec == nil {
			return nil, &ProviderError{Provider: "openai", Message: fmt.Sprintf("no embedding returned for input %d", i)}
		}
	}

	e.mu.Lock()
	if e.dims == 0 && len(out) > 0 {
		e.dims = len(out[0])
	}
	e.mu.Unlock()

	return out, nil
}

type batchSpan struct {
	start, end int
}

// planBatches splits texts into contiguous spans so that each span holds at
// most maxTexts entries and at most maxChars total characters. A single text
// longer than maxChars still gets its own span; the provider decides its fate.
func planBatches(texts []string, maxTexts, maxChars int) []batchSpan {
	var spans []batchSpan
	start := 0
	chars := 0
	for i, t := range texts {
		if i > start && (i-start >= maxTexts || chars+len(t) > maxChars) {
			spans = append(spans, batchSpan{start: start, end: i})
			start = i
			chars = 0
		}
		chars += len(t)
	}
	spans = append(spans, batchSpan{start: start, end: len(texts)})
	return spans
}
