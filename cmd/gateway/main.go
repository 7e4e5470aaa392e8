// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

// Command gateway is the entry point for the MediScan session gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration (.env in development, environment always).
//  3. Connect to Redis (session store).
//  4. Connect to PostgreSQL (audit trail) and run migrations.
//  5. Wire the auth lifecycle, guards, and proxy modules.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mediscan/gateway/internal/audit"
	"github.com/mediscan/gateway/internal/auth"
	"github.com/mediscan/gateway/internal/core/attendance"
	"github.com/mediscan/gateway/internal/core/healthunit"
	"github.com/mediscan/gateway/internal/core/prediction"
	"github.com/mediscan/gateway/internal/core/statistic"
	"github.com/mediscan/gateway/internal/core/subscription"
	"github.com/mediscan/gateway/internal/core/user"
	"github.com/mediscan/gateway/internal/gateway"
	"github.com/mediscan/gateway/internal/guard"
	"github.com/mediscan/gateway/internal/platform/config"
	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/platform/migration"
	pgstore "github.com/mediscan/gateway/internal/platform/postgres"
	redisstore "github.com/mediscan/gateway/internal/platform/redis"
	"github.com/mediscan/gateway/internal/session"
	"github.com/mediscan/gateway/internal/upstream"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[MediScan] gateway_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is a development convenience; its absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("upstream", cfg.UpstreamAPIURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis (session store) ──────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. PostgreSQL (audit trail) + migrations ──────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Session Lifecycle ──────────────────────────────────────────────
	cookies, err := session.NewCookies(cfg.SessionSecret, cfg.IsProduction())
	must(log, err, "initialize session cookies")

	store := session.NewRedisStore(rdb)
	platform := upstream.NewClient(cfg.UpstreamAPIURL, cfg.UpstreamTimeout, log)

	events := auth.NewEvents()
	recorder := audit.NewRecorder(audit.NewPostgresStore(pool), log)
	recorder.Subscribe(events)

	authService := auth.NewService(platform, store, events, log, cfg.SessionTTL)
	authHandler := auth.NewHandler(authService, cookies)
	routeGuard := guard.New(events)

	// ── 6. Proxy Modules ──────────────────────────────────────────────────
	handlers := gateway.Handlers{
		Auth:         authHandler,
		Users:        user.NewHandler(user.NewService(platform)),
		HealthUnits:  healthunit.NewHandler(healthunit.NewService(platform)),
		Subscription: subscription.NewHandler(subscription.NewService(platform)),
		Attendances:  attendance.NewHandler(attendance.NewService(platform)),
		Statistics:   statistic.NewHandler(statistic.NewService(platform)),
		Predictions:  prediction.NewHandler(prediction.NewService(platform)),
	}

	health := gateway.NewHealthHandler(pool, rdb)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	// serverCtx outlives startupCtx: it feeds the rate limiter cleanup
	// goroutines and is cancelled when the process stops.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := gateway.NewServer(serverCtx, cfg, log, authService, cookies, routeGuard, handlers, health)

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("gateway stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
