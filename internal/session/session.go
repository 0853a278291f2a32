package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

// Session owns one user's worksheet. Every action runs under the session
// lock, so index-addressed removals always see the live sequence.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	ws         *worksheet.Worksheet
	lastActive time.Time
}

// Do runs fn against the worksheet as one atomic transition.
func (s *Session) Do(fn func(ws *worksheet.Worksheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ws)
}

func (s *Session) Profile() worksheet.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ws.Profile()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
