// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediscan/gateway/internal/platform/ctxutil"
	"github.com/mediscan/gateway/internal/platform/middleware"
	"github.com/mediscan/gateway/internal/session"
)

// restoreWith stands in for the session restore middleware: it commits the
// given state into the request context the same way the real one does.
func restoreWith(state session.State) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithSession(request.Context(), state)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func serveLogged(t *testing.T, state session.State) string {
	t.Helper()

	var output bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&output, nil))

	handler := middleware.StructuredLogger(logger)(
		restoreWith(state)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/attendances", nil)
	handler.ServeHTTP(httptest.NewRecorder(), request)

	return output.String()
}

func TestStructuredLogger_NamesRestoredActor(t *testing.T) {
	state := session.Authenticated(session.User{ID: "usr-9", Profile: session.RoleProfessional}, "tok")

	logged := serveLogged(t, state)

	// The restore runs inside the logger, yet the final line carries the
	// actor it resolved.
	assert.Contains(t, logged, "http_request_finished")
	assert.Contains(t, logged, `"user_id":"usr-9"`)
}

func TestStructuredLogger_AnonymousRequestHasNoActor(t *testing.T) {
	logged := serveLogged(t, session.Anonymous())

	assert.Contains(t, logged, "http_request_finished")
	assert.NotContains(t, logged, "user_id")
}

func TestStructuredLogger_NoRestoreHasNoActor(t *testing.T) {
	var output bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&output, nil))

	handler := middleware.StructuredLogger(logger)(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}),
	)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, output.String(), "http_request_finished")
	assert.NotContains(t, output.String(), "user_id")
}
