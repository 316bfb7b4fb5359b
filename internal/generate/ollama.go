package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"
)

// OllamaConfig configures an OllamaGenerator.
type OllamaConfig struct {
	BaseURL       string
	Model         string
	HeaderTimeout time.Duration
}

// OllamaGenerator streams completions from an Ollama /api/chat endpoint,
// which emits newline-delimited JSON chunks rather than SSE. Ollama requires
// no credentials; the creds argument is ignored.
type OllamaGenerator struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaGenerator creates a generator for a local Ollama instance.
func NewOllamaGenerator(cfg OllamaConfig) *OllamaGenerator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
	}
	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = 30 * time.Second
	}
	return &OllamaGenerator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: cfg.HeaderTimeout},
		},
	}
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

// Stream opens a streaming completion against Ollama.
func (g *OllamaGenerator) Stream(ctx context.Context, _ Credentials, req Request) (*Stream, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: RoleSystem, Content: req.System})
	}
	for _, turn := range req.History {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: RoleUser, Content: req.Question})

	options := map[string]interface{}{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
		Options:  options,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: "ollama", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &ProviderError{Provider: "ollama", StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	decoder := json.NewDecoder(resp.Body)
	doneSeen := false
	return NewStream(ctx, func() (string, error) {
		for {
			if doneSeen {
				return "", io.EOF
			}
			var chunk ollamaChatChunk
			if err := decoder.Decode(&chunk); err != nil {
				if errors.Is(err, io.EOF) {
					return "", io.EOF
				}
				return "", &ProviderError{Provider: "ollama", Message: "stream decode failed", Err: err}
			}
			if chunk.Error != "" {
				return "", &ProviderError{Provider: "ollama", Message: chunk.Error}
			}
			if chunk.Done {
				doneSeen = true
				if chunk.Message.Content != "" {
					return chunk.Message.Content, nil
				}
				return "", io.EOF
			}
			if chunk.Message.Content == "" {
				continue
			}
			return chunk.Message.Content, nil
		}
	}, resp.Body.Close), nil
}
