// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package gateway assembles the HTTP server from its parts.

Middleware order is the contract here, not a detail:

 1. RequestID, logging, timeout, rate limit, recovery, CORS.
 2. Session restore: every request's identity is resolved exactly once,
    before anything downstream runs.
 3. Route guards: each /api mount is wrapped with the role check from the
    authorization table.
 4. Handlers: by the time one runs, the request is traced, identified, and
    authorized.

No handler ever observes a request whose session has not been restored.
*/
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediscan/gateway/internal/auth"
	"github.com/mediscan/gateway/internal/core/attendance"
	"github.com/mediscan/gateway/internal/core/healthunit"
	"github.com/mediscan/gateway/internal/core/prediction"
	"github.com/mediscan/gateway/internal/core/statistic"
	"github.com/mediscan/gateway/internal/core/subscription"
	"github.com/mediscan/gateway/internal/core/user"
	"github.com/mediscan/gateway/internal/guard"
	"github.com/mediscan/gateway/internal/platform/config"
	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/platform/middleware"
	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
	"github.com/mediscan/gateway/internal/session"
)

// Handlers carries every mounted handler, wired in main.
type Handlers struct {
	Auth         *auth.Handler
	Users        *user.Handler
	HealthUnits  *healthunit.Handler
	Subscription *subscription.Handler
	Attendances  *attendance.Handler
	Statistics   *statistic.Handler
	Predictions  *prediction.Handler
}

// Server is the assembled HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer composes the middleware chain and the route tree.
func NewServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	authService *auth.Service,
	cookies *session.Cookies,
	routeGuard *guard.Guard,
	handlers Handlers,
	health *HealthHandler,
) *Server {
	router := chi.NewRouter()

	// Cross-cutting chain; order matters, see the package comment.
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(logger))
	router.Use(middleware.CORS(cfg))
	router.Use(auth.SessionLoader(authService, cookies))

	// Probes stay outside the guards: orchestrators carry no session.
	router.Get("/health", health.Liveness)
	router.Get("/ready", health.Readiness)

	// Session lifecycle. The login route carries its own stricter bucket.
	router.Mount("/api/auth", handlers.Auth.Routes(middleware.LoginRateLimit(ctx)))

	// Session-backed views.
	router.With(routeGuard.ForRoute("/api/profile")).Get("/api/profile", profileHandler)
	router.With(routeGuard.ForRoute("/api/dashboard")).Get("/api/dashboard", dashboardHandler)

	// Proxied platform modules, each behind its row in the table.
	router.With(routeGuard.ForRoute("/api/users")).
		Mount("/api/users", handlers.Users.Routes())
	router.With(routeGuard.ForRoute("/api/health-units")).
		Mount("/api/health-units", handlers.HealthUnits.Routes())
	router.With(routeGuard.ForRoute("/api/subscriptions")).
		Mount("/api/subscriptions", handlers.Subscription.Routes())
	router.With(routeGuard.ForRoute("/api/statistics")).
		Mount("/api/statistics", handlers.Statistics.Routes())
	router.With(routeGuard.ForRoute("/api/predictions")).
		Mount("/api/predictions", handlers.Predictions.Routes())
	router.With(routeGuard.ForRoute("/api/attendances")).
		Mount("/api/attendances", handlers.Attendances.Routes(
			routeGuard.RequireRoles(session.RoleProfessional),
		))

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           http.TimeoutHandler(router, constants.GlobalRequestTimeout, "request timeout"),
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}

	return &Server{httpServer: httpServer, logger: logger}
}

// Start blocks serving traffic until the listener fails or Shutdown runs.
func (server *Server) Start() error {
	server.logger.Info("gateway_listening", slog.String("addr", server.httpServer.Addr))

	if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (server *Server) Shutdown(ctx context.Context) error {
	server.logger.Info("gateway_shutting_down")
	return server.httpServer.Shutdown(ctx)
}

// # Session-Backed Views

// profileHandler returns the authenticated actor's own identity, straight
// from the restored session. No upstream call is involved.
func profileHandler(writer http.ResponseWriter, request *http.Request) {
	state, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, state.User)
}

// dashboardHandler returns the actor's identity plus the module patterns
// their role may access, so the SPA renders its navigation from the same
// table the guards enforce.
func dashboardHandler(writer http.ResponseWriter, request *http.Request) {
	state, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"user":    state.User,
		"modules": guard.AllowedPatterns(state.User.Profile),
	})
}
