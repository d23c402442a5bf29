package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/inkwell/internal/generation"
)

const cancelledMessage = "Generation was cancelled."

// Generator produces subjects and drawings. *generation.Client implements it.
type Generator interface {
	PlanSubjects(ctx context.Context, plan generation.PlanContext, max int) ([]string, error)
	RenderSubject(ctx context.Context, subject, theme, level string) generation.Image
}

// Observer is notified of every state change.
type Observer interface {
	Observe(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) { f(s) }

// Session is one practice or course view. Generate runs a full cycle
// synchronously; the other methods are safe to call while it runs.
type Session struct {
	id        string
	mode      Mode
	requested int
	gen       Generator
	pacer     Pacer
	events    EventLogger
	observer  Observer

	// pubMu orders publication; it is taken before mu.
	pubMu     sync.Mutex
	mu        sync.Mutex
	selection Selection
	status    Status
	progress  Progress
	errMsg    string
	subjects  []string
	lessons   []Lesson
	updatedAt time.Time
}

func newSession(id string, mode Mode, sel Selection, requested int, gen Generator, pacer Pacer, events EventLogger, observer Observer) *Session {
	if pacer == nil {
		pacer = FixedDelay(DefaultImageDelay)
	}
	if events == nil {
		events = NopEventLogger{}
	}
	return &Session{
		id:        id,
		mode:      mode,
		requested: requested,
		gen:       gen,
		pacer:     pacer,
		events:    events,
		observer:  observer,
		selection: sel,
		status:    StatusIdle,
		progress:  Progress{Total: requested},
		updatedAt: time.Now(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Generate clears previous results and runs plan then drawing generation. It
// returns ErrBusy if a cycle is already running. Plan failures are reported
// both as the returned error and as the session's error message.
func (s *Session) Generate(ctx context.Context) error {
	sel, _, err := s.begin()
	if err != nil {
		return err
	}
	return s.run(ctx, sel)
}

// Start enters generating-plan and runs the rest of the cycle in a new
// goroutine. The returned snapshot is the generating-plan state.
func (s *Session) Start(ctx context.Context) (Snapshot, error) {
	sel, snap, err := s.begin()
	if err != nil {
		return Snapshot{}, err
	}
	go func() {
		_ = s.run(ctx, sel)
	}()
	return snap, nil
}

func (s *Session) begin() (Selection, Snapshot, error) {
	var sel Selection
	snap, err := s.update(func() error {
		if s.status.Generating() {
			return ErrBusy
		}
		sel = s.selection
		s.status = StatusGeneratingPlan
		s.progress = Progress{Total: s.requested}
		s.errMsg = ""
		s.subjects = nil
		s.lessons = nil
		return nil
	})
	if err != nil {
		return Selection{}, Snapshot{}, err
	}
	s.record(EventGenerationStarted, map[string]any{"requested": s.requested})
	return sel, snap, nil
}

func (s *Session) run(ctx context.Context, sel Selection) error {
	plan := s.planContext(sel)
	subjects, err := s.gen.PlanSubjects(ctx, plan, s.requested)
	if err != nil {
		s.fail(err.Error(), err)
		return err
	}
	if len(subjects) == 0 {
		s.fail(ErrNoSubjects.Error(), ErrNoSubjects)
		return ErrNoSubjects
	}
	if len(subjects) > s.requested {
		subjects = subjects[:s.requested]
	}

	// The first drawing starts with the transition.
	s.update(func() error {
		s.status = StatusGeneratingImages
		s.subjects = append([]string(nil), subjects...)
		s.progress = Progress{Current: 1, Total: len(subjects)}
		return nil
	})
	s.record(EventPlanGenerated, map[string]any{"subjects": len(subjects)})

	theme, level := plan.DrawingStyle()
	lessons := make([]Lesson, 0, len(subjects))
	for i, subject := range subjects {
		if err := ctx.Err(); err != nil {
			s.fail(cancelledMessage, err)
			return err
		}

		if i > 0 {
			s.update(func() error {
				s.progress.Current = i + 1
				return nil
			})
		}

		img := s.gen.RenderSubject(ctx, subject, theme, level)
		lessons = append(lessons, Lesson{Subject: subject, Image: img.Data, Placeholder: img.Placeholder})
		s.record(EventDrawingRendered, map[string]any{"index": i, "placeholder": img.Placeholder})

		if i < len(subjects)-1 {
			if err := s.pacer.Wait(ctx); err != nil {
				s.fail(cancelledMessage, err)
				return err
			}
		}
	}

	placeholders := 0
	for _, l := range lessons {
		if l.Placeholder {
			placeholders++
		}
	}

	s.update(func() error {
		s.status = StatusReady
		s.lessons = lessons
		return nil
	})
	s.record(EventGenerationCompleted, map[string]any{"lessons": len(lessons), "placeholders": placeholders})
	slog.Info("generation completed",
		"session_id", s.id,
		"mode", string(s.mode),
		"lessons", len(lessons),
		"placeholders", placeholders,
	)
	return nil
}

// Select changes what the session generates for and returns it to idle.
func (s *Session) Select(sel Selection) error {
	if _, err := s.update(func() error {
		if s.status.Generating() {
			return ErrBusy
		}
		s.selection = sel
		s.resetLocked()
		return nil
	}); err != nil {
		return err
	}
	s.record(EventSelectionChanged, nil)
	return nil
}

// Reset discards results and errors and returns the session to idle.
func (s *Session) Reset() error {
	_, err := s.update(func() error {
		if s.status.Generating() {
			return ErrBusy
		}
		s.resetLocked()
		return nil
	})
	return err
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Lessons returns the generated lessons. Only available when ready.
func (s *Session) Lessons() ([]Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady {
		return nil, ErrNotReady
	}
	return append([]Lesson(nil), s.lessons...), nil
}

// Lesson returns the n-th generated lesson, zero-based.
func (s *Session) Lesson(n int) (Lesson, error) {
	lessons, err := s.Lessons()
	if err != nil {
		return Lesson{}, err
	}
	if n < 0 || n >= len(lessons) {
		return Lesson{}, fmt.Errorf("lesson %d: %w", n, ErrNotFound)
	}
	return lessons[n], nil
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

func (s *Session) lastActive() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt, s.status.Generating()
}

func (s *Session) planContext(sel Selection) generation.PlanContext {
	if s.mode == ModeCourse {
		return generation.CoursePlan(sel.LessonTitle, sel.LessonContent)
	}
	return generation.PracticePlan(sel.Theme, sel.Level)
}

func (s *Session) fail(message string, cause error) {
	snap, _ := s.update(func() error {
		s.status = StatusError
		s.errMsg = message
		s.lessons = nil
		return nil
	})
	s.record(EventGenerationFailed, map[string]any{
		"stage":     stageOf(snap),
		"cancelled": errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded),
	})
	slog.Warn("generation failed",
		"session_id", s.id,
		"mode", string(s.mode),
		"error", cause,
	)
}

func stageOf(snap Snapshot) string {
	if len(snap.Subjects) == 0 {
		return "plan"
	}
	return "images"
}

func (s *Session) resetLocked() {
	s.status = StatusIdle
	s.progress = Progress{Total: s.requested}
	s.errMsg = ""
	s.subjects = nil
	s.lessons = nil
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Mode:      s.mode,
		Status:    s.status,
		Progress:  s.progress,
		Error:     s.errMsg,
		Subjects:  append([]string(nil), s.subjects...),
		Selection: s.selection,
		UpdatedAt: s.updatedAt,
	}
	snap.Selection.LessonContent = append([]string(nil), s.selection.LessonContent...)
	if len(s.lessons) > 0 {
		snap.Placeholders = make([]bool, len(s.lessons))
		for i, l := range s.lessons {
			snap.Placeholders[i] = l.Placeholder
		}
	}
	return snap
}

// update applies fn under mu and publishes the resulting snapshot. Observers
// receive snapshots in the order the state changed. A non-nil error from fn
// leaves the state untouched and publishes nothing.
func (s *Session) update(fn func() error) (Snapshot, error) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if err := fn(); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.touch()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
	return snap, nil
}

func (s *Session) publish(snap Snapshot) {
	if s.observer != nil {
		s.observer.Observe(snap)
	}
}

func (s *Session) record(eventType string, data map[string]any) {
	if err := s.events.LogEvent(Event{
		SessionID: s.id,
		Mode:      s.mode,
		EventType: eventType,
		Data:      data,
	}); err != nil {
		slog.Warn("failed to log event", "session_id", s.id, "type", eventType, "error", err)
	}
}
