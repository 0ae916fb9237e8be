// Package main is the entrypoint for the sitetrainer API server.
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

	"sitetrainer/internal/api"
	"sitetrainer/internal/api/handler"
	mw "sitetrainer/internal/api/middleware"
	"sitetrainer/internal/api/response"
	"sitetrainer/internal/cache"
	"sitetrainer/internal/config"
	"sitetrainer/internal/crawler"
	"sitetrainer/internal/llm"
	"sitetrainer/internal/metrics"
	"sitetrainer/internal/store"
	"sitetrainer/internal/trainer"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "llm_provider", cfg.LLM.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create LLM provider and generator
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}
	slog.Info("LLM provider initialized", "provider", provider.Name())

	generator := llm.NewGenerator(provider, cfg.LLM, slog.Default())

	// 6. Create store, crawler and trainer
	pgStore := store.NewPostgresStore(pool)

	siteCrawler := crawler.New(
		crawler.WithPageTimeout(cfg.Crawler.PageTimeout),
		crawler.WithCrawlTimeout(cfg.Crawler.CrawlTimeout),
		crawler.WithFetchInterval(cfg.Crawler.FetchInterval),
	)

	trainSvc := trainer.NewService(pgStore, redisCache, siteCrawler, generator, slog.Default())

	metrics.MustRegister()

	// 7. Build router with dependencies
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		RateLimit: rateLimit,

		HealthHandler:  healthHandler(pgStore, redisCache),
		TrainHandler:   handler.NewTrainHandler(trainSvc),
		PollJobHandler: handler.NewPollJobHandler(trainSvc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
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
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": checks,
			})
			return
		}

		response.OK(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
