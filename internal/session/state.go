// Package session drives practice and course sessions through lesson-plan and
// drawing generation.
package session

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusGeneratingPlan   Status = "generating-plan"
	StatusGeneratingImages Status = "generating-images"
	StatusReady            Status = "ready"
	StatusError            Status = "error"
)

// Generating reports whether a cycle is in flight.
func (s Status) Generating() bool {
	return s == StatusGeneratingPlan || s == StatusGeneratingImages
}

// Mode is the view a session belongs to.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeCourse   Mode = "course"
)

var (
	ErrBusy             = errors.New("a generation is already in progress")
	ErrNotReady         = errors.New("session has no finished lessons")
	ErrNotFound         = errors.New("session not found")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoSubjects       = errors.New("no subjects were generated")
)

// Progress counts rendered drawings. Current never exceeds Total.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Selection is what a session generates for: a practice theme and level, or a
// curriculum lesson.
type Selection struct {
	Theme         string   `json:"theme,omitempty"`
	Level         string   `json:"level,omitempty"`
	Module        int      `json:"module"`
	Lesson        int      `json:"lesson"`
	ModuleTitle   string   `json:"module_title,omitempty"`
	LessonTitle   string   `json:"lesson_title,omitempty"`
	LessonContent []string `json:"-"`
}

// Lesson is one generated subject with its drawing.
type Lesson struct {
	Subject     string
	Image       []byte
	Placeholder bool
}

// Snapshot is a copy of a session's observable state.
type Snapshot struct {
	ID           string    `json:"id"`
	Mode         Mode      `json:"mode"`
	Status       Status    `json:"status"`
	Progress     Progress  `json:"progress"`
	Error        string    `json:"error,omitempty"`
	Subjects     []string  `json:"subjects,omitempty"`
	Placeholders []bool    `json:"placeholders,omitempty"`
	Selection    Selection `json:"selection"`
	UpdatedAt    time.Time `json:"updated_at"`
}
