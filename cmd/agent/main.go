// Package main is the entrypoint for a StudyMate agent server. An agent
// accepts generation jobs from the gateway, runs them asynchronously, and
// serves job state for polling.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/studymate/studymate/internal/api"
	"github.com/studymate/studymate/internal/api/handler"
	"github.com/studymate/studymate/internal/api/response"
	"github.com/studymate/studymate/internal/cache"
	"github.com/studymate/studymate/internal/config"
	"github.com/studymate/studymate/internal/content"
	"github.com/studymate/studymate/internal/jobs"
	"github.com/studymate/studymate/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("agent failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	generator, err := content.NewGenerator(cfg.AI)
	if err != nil {
		return fmt.Errorf("create content generator: %w", err)
	}
	slog.Info("content generator initialized", "provider", generator.Name())

	pgStore := store.NewPostgresStore(pool)
	orch := jobs.NewOrchestrator(generator, pgStore, redisCache, cfg.AI.InferenceTimeout)

	deps := api.AgentDependencies{
		HealthHandler:          healthHandler(pgStore, redisCache),
		SubmitCourseHandler:    handler.NewSubmitCourseHandler(orch),
		SubmitInterviewHandler: handler.NewSubmitInterviewHandler(orch),
		GetJobHandler:          handler.NewGetJobHandler(orch),
		GetJobStatusHandler:    handler.NewGetJobStatusHandler(orch),
		ListJobsHandler:        handler.NewListJobsHandler(orch),
	}

	return serve(ctx, cfg.Server.Port, api.NewAgentRouter(deps))
}

func serve(ctx context.Context, port int, h http.Handler) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("agent listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("agent stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
