// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediscan/gateway/internal/platform/ctxutil"
	requestutil "github.com/mediscan/gateway/internal/platform/request"
	"github.com/mediscan/gateway/internal/platform/respond"
	"github.com/mediscan/gateway/internal/platform/validate"
	"github.com/mediscan/gateway/internal/session"
)

// Handler exposes the session lifecycle over HTTP.
type Handler struct {
	service *Service
	cookies *session.Cookies
}

// NewHandler wires the auth endpoints.
func NewHandler(service *Service, cookies *session.Cookies) *Handler {
	return &Handler{service: service, cookies: cookies}
}

// Routes mounts the auth endpoints on a sub-router.
//
//	POST /login    credentials in, session cookie out
//	POST /logout   destroys the session, idempotent
//	GET  /session  the identity behind the current cookie
func (handler *Handler) Routes(loginLimiter func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.With(loginLimiter).Post("/login", handler.Login)
	router.Post("/logout", handler.Logout)
	router.Get("/session", handler.Session)
	return router
}

// loginPayload is the credential submission body.
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Login authenticates the actor and establishes a session.

Responses:
  - 200: {"data": {"is_authenticated": true, "user": {...}}} plus the session cookie.
  - 400: Missing or malformed fields, before any upstream call.
  - 401/4xx: The platform's own rejection, with its message.
  - 502: Platform unreachable; the body carries the generic credential hint.
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var payload loginPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("email", payload.Email).
		Email("email", payload.Email).
		Required("password", payload.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, state, ttl, err := handler.service.Login(request.Context(), payload.Email, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cookies.Write(writer, sessionID, ttl); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, state)
}

// Logout destroys the current session and expires the cookie. Safe to call
// without a session.
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	sessionID, _ := handler.cookies.Read(request)
	state := requestutil.Session(request)

	if err := handler.service.Logout(request.Context(), sessionID, state); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Delete(writer)
	respond.NoContent(writer)
}

// Session reports the identity behind the current cookie. Anonymous callers
// get a 200 with is_authenticated false, never a 401: the SPA uses this at
// boot to decide which shell to render.
func (handler *Handler) Session(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, requestutil.Session(request))
}

// # Restore Middleware

// SessionLoader restores the session state for every request and injects it
// into the context before any guard or handler runs.
//
// It never rejects a request on its own: requests with no usable session
// proceed as anonymous, and the guards decide what anonymity means per route.
func SessionLoader(service *Service, cookies *session.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state := session.Anonymous()

			if sessionID, ok := cookies.Read(request); ok {
				state = service.Restore(request.Context(), sessionID)
			}

			ctx := ctxutil.WithSession(request.Context(), state)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
