// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package guard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediscan/gateway/internal/auth"
	"github.com/mediscan/gateway/internal/guard"
	"github.com/mediscan/gateway/internal/platform/ctxutil"
	"github.com/mediscan/gateway/internal/session"
)

// serve runs a request through the middleware with the given session state
// pre-injected, the way the restore middleware would.
func serve(t *testing.T, wrap func(http.Handler) http.Handler, state session.State, accept string) *httptest.ResponseRecorder {
	t.Helper()

	reached := false
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/api/subscriptions?page=2", nil)
	if accept != "" {
		request.Header.Set("Accept", accept)
	}
	request = request.WithContext(ctxutil.WithSession(request.Context(), state))

	recorder := httptest.NewRecorder()
	wrap(inner).ServeHTTP(recorder, request)

	if recorder.Code == http.StatusOK {
		assert.True(t, reached)
	} else {
		assert.False(t, reached, "handler must not run on a rejected request")
	}
	return recorder
}

func authenticatedAs(role session.Role) session.State {
	return session.Authenticated(session.User{ID: "usr-1", Email: "u@mediscan.health", Profile: role}, "tok")
}

func TestRequireAuth_AnonymousAPI(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	recorder := serve(t, routeGuard.RequireAuth(), session.Anonymous(), "application/json")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuth_AnonymousBrowserRedirectsToLogin(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	recorder := serve(t, routeGuard.RequireAuth(), session.Anonymous(), "text/html,application/xhtml+xml")
	assert.Equal(t, http.StatusFound, recorder.Code)

	// The destination is preserved so login can bounce the user back.
	location := recorder.Header().Get("Location")
	assert.Contains(t, location, "/login?from=")
	assert.Contains(t, location, "%2Fapi%2Fsubscriptions")
}

func TestRequireAuth_AuthenticatedPasses(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	recorder := serve(t, routeGuard.RequireAuth(), authenticatedAs(session.RoleProfessional), "application/json")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRoles_WrongRoleAPI(t *testing.T) {
	events := auth.NewEvents()
	var denied []auth.Event
	events.Subscribe(func(event auth.Event) { denied = append(denied, event) })
	routeGuard := guard.New(events)

	wrap := routeGuard.RequireRoles(session.RoleGeneralAdministrator)
	recorder := serve(t, wrap, authenticatedAs(session.RoleProfessional), "application/json")

	assert.Equal(t, http.StatusForbidden, recorder.Code)

	require.Len(t, denied, 1)
	assert.Equal(t, auth.EventDenied, denied[0].Type)
	assert.Equal(t, "usr-1", denied[0].UserID)
	assert.Contains(t, denied[0].Detail, "/api/subscriptions")
}

func TestRequireRoles_WrongRoleBrowserRedirectsToDashboard(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	wrap := routeGuard.RequireRoles(session.RoleGeneralAdministrator)
	recorder := serve(t, wrap, authenticatedAs(session.RoleAdministrator), "text/html")

	// Authorization failures land on the dashboard, never back on login:
	// the actor's identity is fine, their privileges are not.
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
}

func TestRequireRoles_AnonymousStillGoesToLogin(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	wrap := routeGuard.RequireRoles(session.RoleGeneralAdministrator)
	recorder := serve(t, wrap, session.Anonymous(), "text/html")

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Location"), "/login")
}

func TestRequireRoles_AllowedRolePasses(t *testing.T) {
	routeGuard := guard.New(auth.NewEvents())

	wrap := routeGuard.RequireRoles(session.RoleGeneralAdministrator, session.RoleAdministrator)
	recorder := serve(t, wrap, authenticatedAs(session.RoleAdministrator), "application/json")
	assert.Equal(t, http.StatusOK, recorder.Code)
}
