// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package gateway

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/platform/postgres"
	"github.com/mediscan/gateway/internal/platform/redis"
	"github.com/mediscan/gateway/internal/platform/respond"
)

// HealthHandler serves the orchestrator probes.
type HealthHandler struct {
	pool        *pgxpool.Pool
	redisClient *goredis.Client
}

// NewHealthHandler wires the probe endpoints.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *goredis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redisClient: redisClient}
}

// Liveness reports that the process is up. It checks nothing else: a dead
// dependency should not get the gateway restarted.
func (handler *HealthHandler) Liveness(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{
		constants.FieldStatus: "ok",
		"service":             constants.AppName,
		"version":             constants.AppVersion,
	})
}

// Readiness reports whether the gateway can do useful work: sessions need
// Redis, the audit trail needs PostgreSQL.
func (handler *HealthHandler) Readiness(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]string{
		"redis":    "ok",
		"postgres": "ok",
	}
	healthy := true

	if err := redis.Ping(request.Context(), handler.redisClient); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	if err := postgres.Ping(request.Context(), handler.pool); err != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	respond.JSON(writer, status, map[string]any{
		constants.FieldStatus: overall,
		"checks":              checks,
	})
}
