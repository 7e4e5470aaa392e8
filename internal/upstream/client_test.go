// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package upstream_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediscan/gateway/internal/upstream"
)

func newClient(serverURL string) *upstream.Client {
	return upstream.NewClient(serverURL, 5*time.Second, slog.Default())
}

func TestClient_Login_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/users/login", request.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "ana@mediscan.health", body["email"])
		assert.Equal(t, "pw", body["password"])

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"detail":{
			"message": "Login realizado com sucesso",
			"user_name": "Ana Souza",
			"user_id": "usr-42",
			"profile": "professional",
			"token": "header.payload.signature",
			"status_code": 200
		}}`))
	}))
	defer server.Close()

	result, err := newClient(server.URL).Login(context.Background(), "ana@mediscan.health", "pw")
	require.NoError(t, err)

	assert.Equal(t, "header.payload.signature", result.Token)
	assert.Equal(t, "usr-42", result.UserID)
	assert.Equal(t, "Ana Souza", result.UserName)
	assert.Equal(t, "professional", result.Profile)
}

func TestClient_Login_RejectionCarriesUpstreamMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"detail":{"message":"Senha incorreta"}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Login(context.Background(), "ana@mediscan.health", "bad")
	require.Error(t, err)

	apiError, ok := err.(*upstream.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiError.Status)
	assert.Equal(t, "Senha incorreta", apiError.Message)
}

func TestClient_Login_SuccessWithoutTokenIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"detail":{"message":"ok"}}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Login(context.Background(), "ana@mediscan.health", "pw")
	assert.Error(t, err)
}

func TestClient_TransportErrorType(t *testing.T) {
	// A closed server gives a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	_, err := newClient(server.URL).Login(context.Background(), "ana@mediscan.health", "pw")
	require.Error(t, err)

	_, isTransport := err.(*upstream.TransportError)
	assert.True(t, isTransport)
}

func TestClient_Get_UnwrapsDetailAndForwardsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer tok-123", request.Header.Get("Authorization"))
		assert.Equal(t, "2", request.URL.Query().Get("page"))
		_, _ = writer.Write([]byte(`{"detail":[{"id":"a-1"}]}`))
	}))
	defer server.Close()

	payload, err := newClient(server.URL).Get(context.Background(), "/api/attendances", "tok-123",
		map[string][]string{"page": {"2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a-1"}]`, string(payload))
}

func TestClient_Get_PassesThroughUnwrappedBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`[{"id":"a-1"}]`))
	}))
	defer server.Close()

	payload, err := newClient(server.URL).Get(context.Background(), "/api/attendances", "tok", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a-1"}]`, string(payload))
}

func TestToAppError(t *testing.T) {
	t.Run("rejection_preserves_status_and_message", func(t *testing.T) {
		appError := upstream.ToAppError(&upstream.APIError{Status: 404, Message: "Atendimento não encontrado"})
		assert.Equal(t, 404, appError.HTTPStatus)
		assert.Equal(t, "Atendimento não encontrado", appError.Message)
	})

	t.Run("upstream_5xx_collapses_to_502", func(t *testing.T) {
		appError := upstream.ToAppError(&upstream.APIError{Status: 500, Message: "boom"})
		assert.Equal(t, 502, appError.HTTPStatus)
	})

	t.Run("transport_becomes_502", func(t *testing.T) {
		appError := upstream.ToAppError(&upstream.TransportError{Cause: context.DeadlineExceeded})
		assert.Equal(t, 502, appError.HTTPStatus)
	})
}
