// Package web serves the practice and course API over HTTP.
package web

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/p-n-ai/inkwell/internal/ai"
	"github.com/p-n-ai/inkwell/internal/curriculum"
	"github.com/p-n-ai/inkwell/internal/export"
	"github.com/p-n-ai/inkwell/internal/generation"
	"github.com/p-n-ai/inkwell/internal/notify"
	"github.com/p-n-ai/inkwell/internal/session"
)

const readyTimeout = 3 * time.Second

// HealthChecker is implemented by the database and cache clients.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelLister reports the models behind generation. *ai.Router implements it.
type ModelLister interface {
	Models() []ai.ModelInfo
}

// Config holds the server's dependencies.
type Config struct {
	Sessions *session.Manager
	Content  *curriculum.Loader
	Hub      notify.Hub
	Renderer *export.Renderer
	// LessonCount is the number of practice lessons per sheet set.
	LessonCount int
	// Models, when set, are listed by /readyz.
	Models ModelLister
	// Checks are pinged by /readyz, keyed by component name.
	Checks map[string]HealthChecker
}

// Server routes API requests to the session manager and exporters.
type Server struct {
	sessions *session.Manager
	content  *curriculum.Loader
	hub      notify.Hub
	renderer *export.Renderer
	lessons  int
	models   ModelLister
	checks   map[string]HealthChecker
	validate *validator.Validate
}

// NewServer creates a server. A nil Hub disables the events stream.
func NewServer(cfg Config) *Server {
	lessons := cfg.LessonCount
	if lessons <= 0 {
		lessons = generation.DefaultLessonCount
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = export.NewRenderer(export.DefaultScale)
	}
	return &Server{
		sessions: cfg.Sessions,
		content:  cfg.Content,
		hub:      cfg.Hub,
		renderer: renderer,
		lessons:  lessons,
		models:   cfg.Models,
		checks:   cfg.Checks,
		validate: validator.New(),
	}
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/course", s.handleCourse)
	mux.HandleFunc("GET /api/course/{module}/{lesson}", s.handleCourseLesson)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/selection", s.handleSelect)
	mux.HandleFunc("POST /api/sessions/{id}/generate", s.handleGenerate)
	mux.HandleFunc("GET /api/sessions/{id}/lessons/{n}/image", s.handleLessonImage)
	mux.HandleFunc("GET /api/sessions/{id}/export.pdf", s.handleExportPDF)
	mux.HandleFunc("GET /api/sessions/{id}/export.xlsx", s.handleExportWorkbook)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.handleEvents)
	return logRequests(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check.HealthCheck(ctx); err != nil {
			slog.Warn("readiness check failed", "component", name, "error", err)
			failed[name] = err.Error()
		}
	}

	resp := readyResponse{Status: "ready", Sessions: s.sessions.Len()}
	if s.models != nil {
		resp.Models = s.models.Models()
	}
	if len(failed) > 0 {
		resp.Status = "unavailable"
		resp.Failed = failed
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

type readyResponse struct {
	Status   string            `json:"status"`
	Sessions int               `json:"sessions"`
	Models   []ai.ModelInfo    `json:"models,omitempty"`
	Failed   map[string]string `json:"failed,omitempty"`
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Hijack hands the connection to the websocket handler.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	r.status = http.StatusSwitchingProtocols
	return http.NewResponseController(r.ResponseWriter).Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
