// Package generate provides streaming chat completion against remote providers.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Roles used in chat messages.
const (
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversation turn.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a completion to stream. System carries the instructions
// (with any retrieved context already appended), History holds prior turns,
// and Question is the new user message. Model overrides the provider's
// configured default when set.
type Request struct {
	Model       string
	System      string
	History     []Turn
	Question    string
	Temperature float64
	MaxTokens   int
}

// Credentials carries per-call provider credentials. They are supplied by the
// caller on every call and are never read from process-wide configuration.
type Credentials struct {
	APIKey string
}

// Generator streams completions.
type Generator interface {
	Stream(ctx context.Context, creds Credentials, req Request) (*Stream, error)
}

// ProviderError reports a failed generation provider call, either up front
// (bad status) or as a stream's terminal error.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s completion request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s completion request failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Stream is a lazy sequence of completion text fragments. Fragments are
// decoded on demand by Next; nothing is read ahead of the consumer.
//
//	for stream.Next() {
//		fmt.Print(stream.Text())
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Context cancellation ends the stream without an error: the consumer walked
// away, which is not a failure. A provider failure mid-stream ends it with
// Err returning the terminal error.
type Stream struct {
	ctx     context.Context
	next    func() (string, error)
	closeFn func() error

	cur    string
	err    error
	done   bool
	closed bool
}

// NewStream builds a Stream from a fragment source. next returns io.EOF when
// the source is exhausted; any other error becomes the stream's terminal
// error. closeFn may be nil.
func NewStream(ctx context.Context, next func() (string, error), closeFn func() error) *Stream {
	return &Stream{ctx: ctx, next: next, closeFn: closeFn}
}

// Next advances to the next fragment, reporting false when the stream ended.
// No fragment is produced after the context is cancelled.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	if s.ctx != nil && s.ctx.Err() != nil {
		s.finish(nil)
		return false
	}

	frag, err := s.next()
	if err != nil {
		switch {
		case errors.Is(err, io.EOF):
			s.finish(nil)
		case s.ctx != nil && s.ctx.Err() != nil,
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			// The read failed because the consumer cancelled; not a failure.
			s.finish(nil)
		default:
			s.finish(err)
		}
		return false
	}
	s.cur = frag
	return true
}

// Text returns the fragment produced by the last successful Next.
func (s *Stream) Text() string { return s.cur }

// Err returns the terminal provider error. It is nil after normal exhaustion
// and after cancellation.
func (s *Stream) Err() error { return s.err }

// Close releases the underlying connection. It is safe to call at any time
// and more than once; closing early simply abandons the stream.
func (s *Stream) Close() error {
	s.done = true
	s.cur = ""
	return s.release()
}

func (s *Stream) finish(err error) {
	s.done = true
	s.err = err
	s.cur = ""
	_ = s.release()
}

func (s *Stream) release() error {
	if s.closed || s.closeFn == nil {
		return nil
	}
	s.closed = true
	return s.closeFn()
}
