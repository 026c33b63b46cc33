// internal/store/memory.go
//
// In-memory session store for live games.
// A Session pairs one game.Engine with its owner. The engine itself is not
// safe for concurrent use, so every access goes through Session.Do, which
// holds the session lock.
//
// Characteristics:
//   - Sessions keyed by ID in a map, guarded by an RWMutex.
//   - State is lost when the process restarts; finished runs are recorded
//     in SQLite by the HTTP layer.
//   - Idle sessions are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mildminihi/CardLoopChallengeGame/internal/game"
)

// ErrNotFound is returned by Get for unknown or swept sessions.
var ErrNotFound = errors.New("session not found")

// Session is one live game.
type Session struct {
	ID      string
	OwnerID string
	// Daily runs carry the date key they were seeded with.
	Daily bool
	Date  string

	mu       sync.Mutex
	engine   *game.Engine
	lastSeen time.Time
}

func NewSession(id, ownerID string, e *game.Engine) *Session {
	return &Session{ID: id, OwnerID: ownerID, engine: e, lastSeen: time.Now()}
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *game.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.engine)
}

func (s *Session) idleSince(t time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(t)
}

// Store defines the persistence interface for sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (*Session, error)
	// Sweep drops sessions untouched for longer than idle and reports how
	// many were removed.
	Sweep(ctx context.Context, idle time.Duration) int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Sweep(_ context.Context, idle time.Duration) int {
	cutoff := time.Now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
