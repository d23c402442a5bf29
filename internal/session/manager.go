package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/p-n-ai/inkwell/internal/curriculum"
	"github.com/p-n-ai/inkwell/internal/generation"
)

const (
	defaultTTL         = time.Hour
	minJanitorInterval = time.Second
)

// Request asks for a new session or a new selection. Practice requests use
// Theme and Level; course requests use Module and Lesson indices.
type Request struct {
	Mode   Mode   `json:"mode"`
	Theme  string `json:"theme,omitempty"`
	Level  string `json:"level,omitempty"`
	Module int    `json:"module"`
	Lesson int    `json:"lesson"`
}

// ManagerConfig holds dependencies for the session manager.
type ManagerConfig struct {
	Generator       Generator
	Content         *curriculum.Loader
	Pacer           Pacer
	Events          EventLogger
	Observer        Observer
	LessonCount     int           // practice subjects per plan (default 5)
	CourseExercises int           // course subjects per lesson (default 2)
	TTL             time.Duration // idle sessions older than this are dropped (default 1h)
}

// Manager owns the live sessions.
type Manager struct {
	gen             Generator
	content         *curriculum.Loader
	pacer           Pacer
	events          EventLogger
	observer        Observer
	lessonCount     int
	courseExercises int
	ttl             time.Duration

	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates a session manager.
func NewManager(cfg ManagerConfig) *Manager {
	lessonCount := cfg.LessonCount
	if lessonCount <= 0 {
		lessonCount = generation.DefaultLessonCount
	}
	exercises := cfg.CourseExercises
	if exercises <= 0 {
		exercises = generation.DefaultCourseExercises
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	return &Manager{
		gen:             cfg.Generator,
		content:         cfg.Content,
		pacer:           cfg.Pacer,
		events:          events,
		observer:        cfg.Observer,
		lessonCount:     lessonCount,
		courseExercises: exercises,
		ttl:             ttl,
		sessions:        make(map[string]*Session),
	}
}

// Create validates req and starts an idle session for it.
func (m *Manager) Create(req Request) (*Session, error) {
	sel, err := m.Resolve(req)
	if err != nil {
		return nil, err
	}

	requested := m.lessonCount
	if req.Mode == ModeCourse {
		requested = m.courseExercises
	}

	id := uuid.NewString()
	s := newSession(id, req.Mode, sel, requested, m.gen, m.pacer, m.events, m.observer)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	s.record(EventSessionCreated, map[string]any{"requested": requested})
	slog.Info("session created", "session_id", id, "mode", string(req.Mode))
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return s, nil
}

// Select validates req against the session's mode and applies it.
func (m *Manager) Select(id string, req Request) (Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	if req.Mode == "" {
		req.Mode = s.Mode()
	}
	if req.Mode != s.Mode() {
		return Snapshot{}, fmt.Errorf("%w: session is in %s mode", ErrInvalidSelection, s.Mode())
	}
	sel, err := m.Resolve(req)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.Select(sel); err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Delete drops a session. A running cycle finishes but is no longer reachable.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Resolve validates req against the curriculum and returns the selection.
func (m *Manager) Resolve(req Request) (Selection, error) {
	switch req.Mode {
	case ModePractice:
		theme, err := m.content.NormalizeTheme(req.Theme)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		level, err := m.content.NormalizeLevel(req.Level)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		return Selection{Theme: theme, Level: level}, nil
	case ModeCourse:
		module, lesson, err := m.content.Lesson(req.Module, req.Lesson)
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		return Selection{
			Module:        req.Module,
			Lesson:        req.Lesson,
			ModuleTitle:   module.Title,
			LessonTitle:   lesson.Title,
			LessonContent: lesson.Content,
		}, nil
	default:
		return Selection{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidSelection, req.Mode)
	}
}

// Expire drops sessions idle since before now minus the TTL. Sessions with a
// cycle in flight are kept.
func (m *Manager) Expire(now time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		last, generating := s.lastActive()
		if generating || now.Sub(last) < m.ttl {
			continue
		}
		delete(m.sessions, id)
		expired = append(expired, s)
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.record(EventSessionExpired, nil)
	}
	if len(expired) > 0 {
		slog.Info("expired idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Run expires idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Expire(now)
		}
	}
}

// IsUserError reports whether err stems from a rejected request rather than a
// failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidSelection) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrNotReady)
}
