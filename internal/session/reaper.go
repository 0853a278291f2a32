package session

import (
	"context"
	"time"
)

func (m *Manager) reapLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.ReapInterval())
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapExpired()
		}
	}
}

// reapExpired discards sessions idle for longer than the configured timeout
// and returns how many were removed.
func (m *Manager) reapExpired() int {
	cutoff := m.now().Add(-m.cfg.IdleTimeout())

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	active := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		m.ended(s, ReasonExpired, active)
	}
	if len(expired) > 0 {
		m.logger.Debug("reaped idle sessions", "expired", len(expired), "active", active)
	}
	return len(expired)
}
