package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/hermes"
	"github.com/MikeSquared-Agency/oovl/internal/metrics"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionLimit    = errors.New("session limit reached")
)

const (
	ReasonEnded   = "ended"
	ReasonExpired = "expired"
)

// Manager holds the live sessions of the process and discards idle ones.
type Manager struct {
	hermes  hermes.Client
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewManager(h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{
		hermes:   h,
		metrics:  m,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
		stopCh:   make(chan struct{}),
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.reapLoop(ctx)
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Manager) defaults() worksheet.Defaults {
	if !m.cfg.Worksheet.SeedDefaults {
		return worksheet.Defaults{}
	}
	return worksheet.Defaults{
		Options:  m.cfg.Worksheet.DefaultOptions,
		Outcomes: m.cfg.Worksheet.DefaultOutcomes,
	}
}

// Create opens a session for a profile that has passed the gate.
func (m *Manager) Create(profile worksheet.Profile) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		ws:         worksheet.New(profile, m.defaults()),
		lastActive: now,
	}

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.Session.MaxSessions {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrSessionLimit, m.cfg.Session.MaxSessions)
	}
	m.sessions[s.ID] = s
	active := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SessionsStarted.Inc()
	m.metrics.SessionsActive.Set(float64(active))
	m.logger.Info("session started", "session_id", s.ID, "region", profile.Region)

	var opts, outs int
	_ = s.Do(func(ws *worksheet.Worksheet) error {
		opts, outs = len(ws.Options()), len(ws.Outcomes())
		return nil
	})
	if m.hermes != nil {
		_ = m.hermes.Publish(hermes.SubjectSessionStarted(s.ID.String()), hermes.SessionStartedEvent{
			SessionID: s.ID.String(),
			Options:   opts,
			Outcomes:  outs,
			StartedAt: now,
		})
	}
	return s, nil
}

// Get returns a live session and marks it active.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.touch(m.now())
	return s, nil
}

// End discards a session.
func (m *Manager) End(id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	active := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.ended(s, ReasonEnded, active)
	return nil
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) ended(s *Session, reason string, active int) {
	now := m.now()
	m.metrics.SessionsEnded.WithLabelValues(reason).Inc()
	m.metrics.SessionsActive.Set(float64(active))
	m.logger.Info("session "+reason, "session_id", s.ID, "age", now.Sub(s.CreatedAt).Round(time.Second))

	if m.hermes != nil {
		_ = m.hermes.Publish(hermes.SubjectSessionEnded(s.ID.String()), hermes.SessionEndedEvent{
			SessionID: s.ID.String(),
			Reason:    reason,
			Duration:  now.Sub(s.CreatedAt).Round(time.Second).String(),
			EndedAt:   now,
		})
	}
}
