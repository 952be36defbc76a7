package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStateWindow(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := NewSessionState(10*time.Minute, clock)

	assert.False(t, s.RecentlyInjected("sess-1", "/repo/AGENTS.md"))

	s.MarkInjected("sess-1", "/repo/AGENTS.md")
	assert.True(t, s.RecentlyInjected("sess-1", "/repo/AGENTS.md"))

	// Other sessions and other nodes are independent.
	assert.False(t, s.RecentlyInjected("sess-2", "/repo/AGENTS.md"))
	assert.False(t, s.RecentlyInjected("sess-1", "/repo/sub/AGENTS.md"))

	// Advancing past the window expires the record.
	now = now.Add(11 * time.Minute)
	assert.False(t, s.RecentlyInjected("sess-1", "/repo/AGENTS.md"))

	// Re-marking after expiry works again.
	s.MarkInjected("sess-1", "/repo/AGENTS.md")
	assert.True(t, s.RecentlyInjected("sess-1", "/repo/AGENTS.md"))
}

func TestSessionStatePrunes(t *testing.T) {
	now := time.Now()
	s := NewSessionState(time.Minute, func() time.Time { return now })

	s.MarkInjected("old", "/a")
	now = now.Add(2 * time.Minute)
	s.MarkInjected("new", "/b")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Len(t, s.seen, 1)
}
