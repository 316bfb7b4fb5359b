package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"delta": map[string]string{"content": content}},
		},
	})
	return "data: " + string(payload) + "\n\n"
}

func TestOpenAIGenerator_StreamsFragments(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		for _, frag := range []string{"The ", "answer ", "is 42."} {
			fmt.Fprint(w, sseChunk(frag))
			fl.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL})
	s, err := g.Stream(context.Background(), Credentials{APIKey: "sk-test"}, Request{
		System:   "be brief",
		History:  []Turn{{Role: RoleUser, Content: "earlier"}, {Role: RoleAssistant, Content: "reply"}},
		Question: "what is the answer?",
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := strings.Join(collect(s), ""); got != "The answer is 42." {
		t.Errorf("assembled = %q", got)
	}
	if s.Err() != nil {
		t.Errorf("Err = %v", s.Err())
	}

	if !gotBody.Stream {
		t.Error("request did not set stream: true")
	}
	if len(gotBody.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4", len(gotBody.Messages))
	}
	if gotBody.Messages[0].Role != RoleDeveloper {
		t.Errorf("instructions role = %q, want developer", gotBody.Messages[0].Role)
	}
	if gotBody.Messages[3].Role != RoleUser || gotBody.Messages[3].Content != "what is the answer?" {
		t.Errorf("final message = %+v", gotBody.Messages[3])
	}
}

func TestOpenAIGenerator_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL})
	_, err := g.Stream(context.Background(), Credentials{APIKey: "bad"}, Request{Question: "q"})

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", perr.StatusCode)
	}
}

func TestOpenAIGenerator_MidStreamErrorEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, sseChunk("partial "))
		fl.Flush()
		fmt.Fprint(w, `data: {"error": {"message": "overloaded"}}`+"\n\n")
	}))
	defer srv.Close()

	g := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL})
	s, err := g.Stream(context.Background(), Credentials{}, Request{Question: "q"})
	if err != nil {
		t.Fatal(err)
	}

	got := collect(s)
	if len(got) != 1 || got[0] != "partial " {
		t.Errorf("fragments = %v", got)
	}
	var perr *ProviderError
	if !errors.As(s.Err(), &perr) {
		t.Fatalf("Err = %v, want ProviderError", s.Err())
	}
	if perr.Message != "overloaded" {
		t.Errorf("Message = %q", perr.Message)
	}
}

func TestOpenAIGenerator_CancelMidStream(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, sseChunk("first"))
		fl.Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	g := NewOpenAIGenerator(OpenAIConfig{BaseURL: srv.URL})
	s, err := g.Stream(ctx, Credentials{}, Request{Question: "q"})
	if err != nil {
		t.Fatal(err)
	}

	if !s.Next() {
		t.Fatal("expected first fragment")
	}
	if s.Text() != "first" {
		t.Fatalf("Text = %q", s.Text())
	}
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if s.Next() {
			t.Error("fragment observed after cancellation")
		}
		if s.Err() != nil {
			t.Errorf("Err = %v, want nil after cancellation", s.Err())
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end promptly after cancellation")
	}
}
