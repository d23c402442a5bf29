package app

import (
	"context"
	"testing"

	"github.com/p-n-ai/inkwell/internal/notify"
	"github.com/p-n-ai/inkwell/internal/platform/config"
	"github.com/p-n-ai/inkwell/internal/session"
)

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Google:     config.GoogleConfig{APIKey: apiKey},
			TextModel:  "gemini-2.5-pro",
			ImageModel: "imagen-4.0-generate-001",
		},
		Generation: config.GenerationConfig{LessonCount: 5, CourseExercises: 2},
		Export:     config.ExportConfig{Scale: 1},
	}
}

func TestNewAIRouter(t *testing.T) {
	router, err := NewAIRouter(context.Background(), testConfig("test-key"))
	if err != nil {
		t.Fatalf("NewAIRouter() error = %v", err)
	}
	if !router.HasProvider() {
		t.Error("router should have the gemini provider")
	}
	if got := len(router.Models()); got != 2 {
		t.Errorf("Models() = %d, want 2", got)
	}
}

func TestNewAIRouter_NoProvider(t *testing.T) {
	if _, err := NewAIRouter(context.Background(), testConfig("")); err == nil {
		t.Error("NewAIRouter() should fail without a provider")
	}
}

func TestNew_InProcessDefaults(t *testing.T) {
	a, err := New(context.Background(), testConfig("test-key"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.AI == nil {
		t.Fatal("AI router not wired")
	}
	if got := len(a.AI.Models()); got != 2 {
		t.Errorf("AI.Models() = %d, want 2", got)
	}
	if a.DB != nil || a.Cache != nil {
		t.Error("database and cache should be disabled without URLs")
	}
	if _, ok := a.Hub.(*notify.MemoryHub); !ok {
		t.Errorf("Hub = %T, want *notify.MemoryHub", a.Hub)
	}
	if _, ok := a.Events.(session.NopEventLogger); !ok {
		t.Errorf("Events = %T, want NopEventLogger", a.Events)
	}
	if len(a.Content.Modules()) == 0 {
		t.Error("embedded curriculum not loaded")
	}

	s, err := a.Sessions.Create(session.Request{Mode: session.ModeCourse, Module: 0, Lesson: 0})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Snapshot().Progress.Total != 2 {
		t.Errorf("course Total = %d, want 2", s.Snapshot().Progress.Total)
	}
}
