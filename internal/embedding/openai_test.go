package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// newStubProvider returns a test server that answers /embeddings with vectors
// derived from each input's length, so order scrambling is detectable.
func newStubProvider(t *testing.T, requests *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var resp embeddingsResponse
		for i, text := range req.Input {
			resp.Data = append(resp.Data, struct {
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(len(text)), 1}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIEmbedder_BatchOrderPreserved(t *testing.T) {
	srv := newStubProvider(t, nil)
	defer srv.Close()

	// Small batch bound forces several concurrent requests.
	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL, MaxBatchSize: 2, Concurrency: 4})

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee", "ffffff", "g"}
	vecs, err := e.EmbedBatch(context.Background(), Credentials{APIKey: "k"}, texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vecs), len(texts))
	}
	for i, text := range texts {
		if vecs[i][0] != float32(len(text)) {
			t.Errorf("vector %d = %v, want first component %d (order broken)", i, vecs[i], len(text))
		}
	}
}

func TestOpenAIEmbedder_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(embeddingsResponse{Data: []struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{{Index: 0, Embedding: []float32{1}}}})
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL})
	if _, err := e.Embed(context.Background(), Credentials{APIKey: "sk-test"}, "hi"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
}

func TestOpenAIEmbedder_ProviderErrorNoRetry(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL})
	_, err := e.EmbedBatch(context.Background(), Credentials{}, []string{"x"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", perr.StatusCode)
	}
	if !strings.Contains(perr.Message, "rate limited") {
		t.Errorf("Message = %q, want provider body included", perr.Message)
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("provider called %d times, want exactly 1 (no retries)", n)
	}
}

func TestOpenAIEmbedder_EmptyInputNoCall(t *testing.T) {
	var requests atomic.Int64
	srv := newStubProvider(t, &requests)
	defer srv.Close()

	e := NewOpenAIEmbedder(OpenAIConfig{BaseURL: srv.URL})
	vecs, err := e.EmbedBatch(context.Background(), Credentials{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 0 {
		t.Errorf("got %d vectors, want 0", len(vecs))
	}
	if requests.Load() != 0 {
		t.Error("provider called for empty input")
	}
}

func TestPlanBatches(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		maxTexts int
		maxChars int
		want     []batchSpan
	}{
		{
			"split by count",
			[]string{"a", "b", "c", "d", "e"}, 2, 1000,
			[]batchSpan{{0, 2}, {2, 4}, {4, 5}},
		},
		{
			"split by chars",
			[]string{"aaaa", "bbbb", "cc"}, 10, 8,
			[]batchSpan{{0, 2}, {2, 3}},
		},
		{
			"oversized text gets own span",
			[]string{"aaaaaaaaaa", "b"}, 10, 4,
			[]batchSpan{{0, 1}, {1, 2}},
		},
		{
			"single span",
			[]string{"a", "b"}, 10, 100,
			[]batchSpan{{0, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planBatches(tt.texts, tt.maxTexts, tt.maxChars)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("span %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
