// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package guard enforces the gateway's route-level access policy.

Two rules, one table:

  - Unauthenticated actors are sent to the login view (browsers) or get a
    401 (API clients). Where they wanted to go is preserved in a query
    parameter so the SPA can return them after login.
  - Authenticated actors without the required role are sent to the default
    dashboard (browsers) or get a 403 (API clients). They are never bounced
    to login: their identity is fine, their privileges are not.

The table in routes.go is the entire policy. Guards read the session state
restored by the auth middleware; they never touch the store themselves.
*/
package guard

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/mediscan/gateway/internal/auth"
	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/platform/ctxutil"
	"github.com/mediscan/gateway/internal/platform/respond"
	"github.com/mediscan/gateway/internal/session"
)

// Canonical guard rejections. Built once; the messages are static.
var (
	errUnauthenticated = apperr.Unauthorized("Authentication required")
	errForbidden       = apperr.Forbidden("Your role does not grant access to this resource")
)

// Guard builds route-protection middleware bound to the event hub, so every
// denial is observable by the audit trail.
type Guard struct {
	events *auth.Events
}

// New creates a Guard publishing denials to the given hub.
func New(events *auth.Events) *Guard {
	return &Guard{events: events}
}

// RequireAuth rejects anonymous requests. Role membership is not checked.
func (guard *Guard) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state := ctxutil.GetSession(request.Context())
			if !state.IsAuthenticated {
				guard.rejectAnonymous(writer, request)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRoles rejects anonymous requests and authenticated requests whose
// role is not in the allowed set.
func (guard *Guard) RequireRoles(allowed ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			state := ctxutil.GetSession(request.Context())

			if !state.IsAuthenticated {
				guard.rejectAnonymous(writer, request)
				return
			}

			if !slices.Contains(allowed, state.User.Profile) {
				guard.rejectForbidden(writer, request, state)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// rejectAnonymous sends the actor to the login view, remembering the
// destination they were after.
func (guard *Guard) rejectAnonymous(writer http.ResponseWriter, request *http.Request) {
	if wantsHTML(request) {
		target := constants.LoginRoute + "?from=" + url.QueryEscape(request.URL.RequestURI())
		http.Redirect(writer, request, target, http.StatusFound)
		return
	}

	respond.Error(writer, request, errUnauthenticated)
}

// rejectForbidden sends an authenticated actor back to the landing view and
// publishes the denial.
func (guard *Guard) rejectForbidden(writer http.ResponseWriter, request *http.Request, state session.State) {
	guard.events.Publish(auth.Event{
		Type:    auth.EventDenied,
		UserID:  state.User.ID,
		Email:   state.User.Email,
		Profile: string(state.User.Profile),
		Detail:  request.Method + " " + request.URL.Path,
		At:      time.Now(),
	})

	if wantsHTML(request) {
		http.Redirect(writer, request, constants.LandingRoute, http.StatusFound)
		return
	}

	respond.Error(writer, request, errForbidden)
}

// wantsHTML distinguishes browser navigations from the SPA's fetch calls.
// Navigations advertise text/html; fetches ask for application/json.
func wantsHTML(request *http.Request) bool {
	return strings.Contains(request.Header.Get(constants.HeaderAccept), "text/html")
}
