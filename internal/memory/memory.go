// Package memory keeps a bounded, per-session buffer of recent conversation
// turns. Sessions live for the process lifetime only; a restart loses them.
package memory

import (
	"strings"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one user or assistant message within a session.
type Turn struct {
	Role string
	Text string
}

// Store holds per-session turn buffers. Appends for the same session are
// serialized; different sessions are independent.
type Store struct {
	mu       sync.Mutex
	capacity int
	sessions map[string]*session
}

type session struct {
	mu    sync.Mutex
	turns []Turn
}

// NewStore creates a Store retaining at most capacity turns per session.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 10
	}
	return &Store{
		capacity: capacity,
		sessions: make(map[string]*session),
	}
}

func (s *Store) get(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{}
		s.sessions[sessionID] = sess
	}
	return sess
}

// Append adds a turn to the session, evicting the oldest turn once the
// capacity is exceeded (strict FIFO).
func (s *Store) Append(sessionID string, t Turn) {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.turns) >= s.capacity {
		sess.turns = sess.turns[1:]
	}
	sess.turns = append(sess.turns, t)
}

// Context renders the retained turns as "role: text" lines, oldest first.
func (s *Store) Context(sessionID string) string {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	lines := make([]string, 0, len(sess.turns))
	for _, t := range sess.turns {
		lines = append(lines, t.Role+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

// Turns returns a copy of the session's retained turns, oldest first.
func (s *Store) Turns(sessionID string) []Turn {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}
