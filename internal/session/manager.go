package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/claude/repcoach/internal/exercise"
	"github.com/google/uuid"
)

// Manager owns the active sessions.
type Manager struct {
	registry *exercise.Registry
	rec      Recorder
	log      *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a manager over the given exercise registry. rec may be
// nil to disable persistence.
func NewManager(registry *exercise.Registry, rec Recorder, log *slog.Logger) *Manager {
	return &Manager{
		registry: registry,
		rec:      rec,
		log:      log,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a session for the named exercise.
func (m *Manager) Create(ctx context.Context, exerciseName string, now time.Time) (*Session, error) {
	def := m.registry.Get(exerciseName)
	if def == nil {
		return nil, fmt.Errorf("unknown exercise %q", exerciseName)
	}

	s, err := newSession(def, m.rec, m.log, now)
	if err != nil {
		return nil, err
	}

	if m.rec != nil {
		if err := m.rec.StartSession(ctx, s.ID, s.Exercise, now); err != nil {
			return nil, fmt.Errorf("persisting session: %w", err)
		}
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("session started", "session", s.ID, "exercise", exerciseName)
	return s, nil
}

// Get returns the active session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// List returns summaries of all active sessions, newest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	out := make([]Summary, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// End finishes a session: persists its final counts and removes it from the
// active set. Ending an unknown session is an error.
func (m *Manager) End(ctx context.Context, id uuid.UUID, now time.Time) (Summary, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return Summary{}, fmt.Errorf("unknown session %s", id)
	}

	sum := s.Summary()
	if m.rec != nil {
		if err := m.rec.FinishSession(ctx, id, now, sum.GoodReps, sum.BadReps); err != nil {
			m.log.Warn("finishing session failed", "session", id, "error", err)
		}
	}
	m.log.Info("session ended", "session", id, "good", sum.GoodReps, "bad", sum.BadReps)
	return sum, nil
}
