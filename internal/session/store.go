// Package session keeps per-session conversation history in an expiring
// in-memory cache. Sessions are transient: history is a retrieval aid for
// follow-up questions, not durable chat storage.
package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hyperjump/kotaeru/internal/generate"
)

const (
	defaultTTL      = 30 * time.Minute
	defaultMaxTurns = 20
)

// Store holds conversation turns per session id. Each append refreshes the
// session's TTL; idle sessions expire. History is a sliding window of the
// most recent maxTurns turns.
type Store struct {
	// mu serializes read-modify-write cycles on a session's history. The
	// cache is safe for concurrent use but cannot make append atomic.
	mu       sync.Mutex
	cache    *gocache.Cache
	maxTurns int
}

// NewStore creates a session store. Non-positive arguments select the
// defaults of 30 minutes and 20 turns.
func NewStore(ttl time.Duration, maxTurns int) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Store{
		cache:    gocache.New(ttl, ttl/2),
		maxTurns: maxTurns,
	}
}

// Append adds turns to the session's history, trimming the window to the
// most recent maxTurns and refreshing the session's TTL.
func (s *Store) Append(sessionID string, turns ...generate.Turn) {
	if sessionID == "" || len(turns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.historyLocked(sessionID)
	history = append(history, turns...)
	if len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.cache.Set(sessionID, history, gocache.DefaultExpiration)
}

// History returns a copy of the session's turns, oldest first. Unknown or
// expired sessions yield an empty history.
func (s *Store) History(sessionID string) []generate.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.historyLocked(sessionID)
	out := make([]generate.Turn, len(history))
	copy(out, history)
	return out
}

// Clear drops the session's history.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(sessionID)
}

// Sessions returns the number of live sessions.
func (s *Store) Sessions() int {
	return s.cache.ItemCount()
}

func (s *Store) historyLocked(sessionID string) []generate.Turn {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil
	}
	history, ok := v.([]generate.Turn)
	if !ok {
		return nil
	}
	return history
}
