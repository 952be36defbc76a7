package learning

import (
	"sync"
	"time"
)

// DefaultInjectionWindow is how long a node injection stays "recent"
// within one session.
const DefaultInjectionWindow = 15 * time.Minute

// SessionState tracks which nodes were recently injected into which
// sessions, so hooks do not re-deliver the same context over and over.
// State is process-local and explicit; the clock is injected so tests
// control time without touching the filesystem.
type SessionState struct {
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewSessionState creates session state with the given dedup window.
// A non-positive window falls back to DefaultInjectionWindow; a nil
// clock falls back to time.Now.
func NewSessionState(window time.Duration, now func() time.Time) *SessionState {
	if window <= 0 {
		window = DefaultInjectionWindow
	}
	if now == nil {
		now = time.Now
	}
	return &SessionState{
		window: window,
		now:    now,
		seen:   make(map[string]time.Time),
	}
}

// MarkInjected records that a node's context was delivered to a
// session.
func (s *SessionState) MarkInjected(sessionID, nodePath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[sessionKey(sessionID, nodePath)] = s.now()
	s.prune()
}

// RecentlyInjected reports whether the node was delivered to the
// session within the dedup window.
func (s *SessionState) RecentlyInjected(sessionID, nodePath string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.seen[sessionKey(sessionID, nodePath)]
	return ok && s.now().Sub(at) < s.window
}

// prune drops expired records. Caller holds the mutex.
func (s *SessionState) prune() {
	cutoff := s.now().Add(-s.window)
	for key, at := range s.seen {
		if at.Before(cutoff) {
			delete(s.seen, key)
		}
	}
}

func sessionKey(sessionID, nodePath string) string {
	return sessionID + "\x00" + nodePath
}
