// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the preplab catalog server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"preplab/internal/cache"
	"preplab/internal/config"
	"preplab/internal/database"
	"preplab/internal/handlers"
	"preplab/internal/middleware"
	"preplab/internal/router"
	"preplab/internal/service"
	"preplab/internal/store"
)

func main() {
	// Structured logger: JSON in production, text in development.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the closure-count cache. The server runs
	// without it; counts are then computed on every request.
	var counts *cache.CountCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey not available, closure counts uncached", "error", err)
	} else {
		defer valkeyClient.Close()
		counts = cache.NewCountCache(valkeyClient, cfg.CountCacheTTL)
	}

	// Data stores.
	categoryStore := store.NewCategoryStore(db)
	labelStore := store.NewLabelStore(db)
	contentStore := store.NewContentStore(db)

	// A typed nil *CountCache must not end up in a non-nil interface.
	var countCache service.CountCache
	var invalidator service.CountInvalidator
	if counts != nil {
		countCache = counts
		invalidator = counts
	}
	categorySvc := service.NewCategoryService(categoryStore)
	labelSvc := service.NewLabelService(labelStore, categoryStore, invalidator)
	querySvc := service.NewQueryService(labelSvc, contentStore, countCache)
	contentSvc := service.NewContentService(contentStore, labelStore, invalidator)
	navigator := service.NewNavigator(labelSvc, querySvc, categoryStore)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	defer limiter.Stop()

	r := router.New(router.Deps{
		Categories:   handlers.NewCategories(categorySvc),
		Labels:       handlers.NewLabels(labelSvc, categorySvc),
		Browse:       handlers.NewBrowse(querySvc, navigator),
		Content:      handlers.NewContent(contentSvc),
		AdminKeyHash: cfg.AdminKeyHash,
		Limiter:      limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
