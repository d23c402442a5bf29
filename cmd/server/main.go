package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/inkwell/internal/app"
	"github.com/p-n-ai/inkwell/internal/platform/config"
	"github.com/p-n-ai/inkwell/internal/platform/logger"
	"github.com/p-n-ai/inkwell/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	go a.Sessions.Run(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newHandler(a),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // PDF export renders every page
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newHandler creates the HTTP router; readiness pings whichever backing
// services are configured.
func newHandler(a *app.App) http.Handler {
	checks := map[string]web.HealthChecker{"ai": a.AI}
	if a.DB != nil {
		checks["database"] = a.DB
	}
	if a.Cache != nil {
		checks["cache"] = a.Cache
	}
	return web.NewServer(web.Config{
		Sessions:    a.Sessions,
		Content:     a.Content,
		Hub:         a.Hub,
		Renderer:    a.Renderer,
		LessonCount: a.Config.Generation.LessonCount,
		Models:      a.AI,
		Checks:      checks,
	}).Handler()
}
