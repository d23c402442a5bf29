// Package app wires configuration into the long-lived components shared by the
// server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/inkwell/internal/ai"
	"github.com/p-n-ai/inkwell/internal/curriculum"
	"github.com/p-n-ai/inkwell/internal/export"
	"github.com/p-n-ai/inkwell/internal/generation"
	"github.com/p-n-ai/inkwell/internal/notify"
	"github.com/p-n-ai/inkwell/internal/platform/cache"
	"github.com/p-n-ai/inkwell/internal/platform/config"
	"github.com/p-n-ai/inkwell/internal/platform/database"
	"github.com/p-n-ai/inkwell/internal/session"
)

// App holds the wired components. DB and Cache are nil when not configured.
type App struct {
	Config    *config.Config
	Content   *curriculum.Loader
	AI        *ai.Router
	Generator *generation.Client
	Renderer  *export.Renderer
	DB        *database.DB
	Cache     *cache.Cache
	Hub       notify.Hub
	Events    session.EventLogger
	Sessions  *session.Manager
}

// NewAIRouter registers the configured Google backends. Gemini is tried
// before Vertex when both are configured.
func NewAIRouter(ctx context.Context, cfg *config.Config) (*ai.Router, error) {
	router := ai.NewRouter()
	models := ai.WithGoogleModels(cfg.AI.TextModel, cfg.AI.ImageModel)

	if cfg.AI.Google.APIKey != "" {
		p, err := ai.NewGoogleProvider(ctx, cfg.AI.Google.APIKey, models)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		router.Register(p.Backend(), p)
		slog.Info("AI provider registered", "provider", p.Backend(), "text_model", cfg.AI.TextModel, "image_model", cfg.AI.ImageModel)
	}
	if cfg.AI.Vertex.Enabled {
		p, err := ai.NewGoogleProvider(ctx, "", models, ai.WithVertex(cfg.AI.Vertex.Project, cfg.AI.Vertex.Location))
		if err != nil {
			return nil, fmt.Errorf("vertex provider: %w", err)
		}
		router.Register(p.Backend(), p)
		slog.Info("AI provider registered", "provider", p.Backend(), "project", cfg.AI.Vertex.Project, "location", cfg.AI.Vertex.Location)
	}

	if !router.HasProvider() {
		return nil, errors.New("no AI provider configured")
	}
	return router, nil
}

// Generator bundles what is needed to produce sheets without a session
// registry.
type Generator struct {
	Content *curriculum.Loader
	AI      *ai.Router
	Client  *generation.Client
}

// NewGenerator builds the curriculum loader, AI router and generation client.
func NewGenerator(ctx context.Context, cfg *config.Config) (*Generator, error) {
	content, err := curriculum.NewLoader(cfg.CurriculumPath)
	if err != nil {
		return nil, err
	}
	router, err := NewAIRouter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Generator{
		Content: content,
		AI:      router,
		Client:  generation.NewClient(router, generation.WithModels(cfg.AI.TextModel, cfg.AI.ImageModel)),
	}, nil
}

// New wires every component. Database and cache connections are opened only
// when their URLs are set; without a cache, notifications stay in process.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	g, err := NewGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Content:   g.Content,
		AI:        g.AI,
		Generator: g.Client,
		Renderer:  export.NewRenderer(cfg.Export.Scale),
		Events:    session.NopEventLogger{},
	}

	if cfg.Database.URL != "" {
		db, err := database.New(ctx, database.Options{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.DB = db
		events := session.NewPostgresEventLogger(db.Pool)
		if err := events.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("session events schema: %w", err)
		}
		a.Events = events
		slog.Info("session events recorded to database")
	}

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		a.Cache = c
		a.Hub = notify.NewRedisHub(c.Client, "")
		slog.Info("session notifications via redis")
	} else {
		a.Hub = notify.NewMemoryHub()
	}

	a.Sessions = session.NewManager(session.ManagerConfig{
		Generator:       g.Client,
		Content:         g.Content,
		Pacer:           session.FixedDelay(cfg.Generation.ImageDelay),
		Events:          a.Events,
		Observer:        session.NewBroadcaster(a.Hub),
		LessonCount:     cfg.Generation.LessonCount,
		CourseExercises: cfg.Generation.CourseExercises,
		TTL:             cfg.Session.TTL,
	})
	return a, nil
}

// Close releases the hub and connections.
func (a *App) Close() {
	if a.Hub != nil {
		if err := a.Hub.Close(); err != nil {
			slog.Warn("close hub", "error", err)
		}
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			slog.Warn("close cache", "error", err)
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
