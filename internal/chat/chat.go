// Package chat combines retrieval and generation: it answers a question by
// retrieving relevant chunks, folding them into the system instructions, and
// streaming a completion grounded in that context.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kotaeru/internal/embedding"
	"github.com/hyperjump/kotaeru/internal/generate"
	"github.com/hyperjump/kotaeru/internal/models"
	"github.com/hyperjump/kotaeru/internal/search"
	"github.com/hyperjump/kotaeru/internal/session"
)

const defaultTopK = 3

// Config tunes chat behavior.
type Config struct {
	// TopK is the number of chunks folded into the prompt when the
	// request does not override it.
	TopK int
	// Temperature and MaxTokens are forwarded to the generation provider.
	// Zero values leave the provider defaults in place.
	Temperature float64
	MaxTokens   int
}

// Service answers questions over the indexed corpus.
type Service struct {
	engine      *search.Engine
	generator   generate.Generator
	sessions    *session.Store
	topK        int
	temperature float64
	maxTokens   int
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for retrieval diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a chat service over the given engine, generator, and
// session store.
func NewService(engine *search.Engine, generator generate.Generator, sessions *session.Store, cfg Config, opts ...Option) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	s := &Service{
		engine:      engine,
		generator:   generator,
		sessions:    sessions,
		topK:        cfg.TopK,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AskRequest is a chat invocation. System carries the caller's instructions
// for the model; retrieved context is appended to it. SessionID is optional;
// when set, prior turns are replayed and the exchange is recorded.
type AskRequest struct {
	SessionID string
	System    string
	Question  string
	Model     string
	K         int
}

// Ask retrieves context for the question and starts a completion stream.
// The same api key is used for the embedding and generation providers, as
// both are addressed per call. The returned Answer streams fragments; the
// exchange is recorded to the session only after a clean, uncancelled end.
func (s *Service) Ask(ctx context.Context, apiKey string, req AskRequest) (*Answer, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("question cannot be empty")
	}
	k := req.K
	if k <= 0 {
		k = s.topK
	}

	chunks, err := s.engine.Retrieve(ctx, embedding.Credentials{APIKey: apiKey}, req.Question, k)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}
	s.logger.Debug("retrieved context for question",
		zap.Int("chunks", len(chunks)),
		zap.Int("k", k))

	system := req.System
	if contextBlock := search.BuildContext(chunks); contextBlock != "" {
		system += "\n\nRelevant context from uploaded documents:\n" + contextBlock +
			"\n\nPlease use this context to answer the user's question when relevant."
	}

	var history []generate.Turn
	if req.SessionID != "" {
		history = s.sessions.History(req.SessionID)
	}

	stream, err := s.generator.Stream(ctx, generate.Credentials{APIKey: apiKey}, generate.Request{
		Model:       req.Model,
		System:      system,
		History:     history,
		Question:    req.Question,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start generation: %w", err)
	}

	return &Answer{
		Sources:   chunks,
		ctx:       ctx,
		stream:    stream,
		sessions:  s.sessions,
		sessionID: req.SessionID,
		question:  req.Question,
	}, nil
}

// Answer is a streaming reply plus the chunks it was grounded on. It has the
// same pull semantics as generate.Stream.
type Answer struct {
	// Sources are the retrieved chunks folded into the prompt, best first.
	Sources []*models.ScoredChunk

	ctx       context.Context
	stream    *generate.Stream
	sessions  *session.Store
	sessionID string
	question  string
	text      strings.Builder
	recorded  bool
}

// Next advances the stream. When the stream ends cleanly and was not
// cancelled, the question and accumulated answer are appended to the
// session history exactly once.
func (a *Answer) Next() bool {
	if a.stream.Next() {
		a.text.WriteString(a.stream.Text())
		return true
	}
	if !a.recorded && a.sessionID != "" && a.stream.Err() == nil && a.ctx.Err() == nil {
		a.recorded = true
		a.sessions.Append(a.sessionID,
			generate.Turn{Role: generate.RoleUser, Content: a.question},
			generate.Turn{Role: generate.RoleAssistant, Content: a.text.String()},
		)
	}
	return false
}

// Text returns the current fragment.
func (a *Answer) Text() string { return a.stream.Text() }

// Err reports a terminal stream error, nil on clean end or cancellation.
func (a *Answer) Err() error { return a.stream.Err() }

// Close releases the underlying stream.
func (a *Answer) Close() error { return a.stream.Close() }
