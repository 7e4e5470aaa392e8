// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package upstream is the HTTP client for the MediScan platform API.

Every piece of clinical data the gateway serves originates here: the gateway
authenticates against the platform, relays CRUD calls with the actor's own
bearer token, and forwards image payloads to the inference endpoints.

Wire Conventions (platform API):

  - Success and error bodies are wrapped in a "detail" envelope.
  - Error text lives at detail.message.
  - Login success carries the token and actor identity inside detail.

Transport failures and non-2xx responses are surfaced as distinct error
types so callers can choose between a credential message and a 502.
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/platform/constants"
)

// # Error Types

// APIError is a non-2xx response from the platform API, carrying the
// upstream status and the human-readable message from detail.message.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (apiError *APIError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", apiError.Status, apiError.Message)
}

// TransportError is a failure to reach the platform API at all: DNS, dial,
// TLS, timeout, or a body that could not be read.
type TransportError struct {
	Cause error
}

// Error implements the error interface.
func (transportError *TransportError) Error() string {
	return fmt.Sprintf("upstream: unreachable: %v", transportError.Cause)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (transportError *TransportError) Unwrap() error {
	return transportError.Cause
}

// ToAppError converts upstream failures into the gateway's error taxonomy.
//
// Rejections keep the upstream status and message; transport failures become
// a 502 with a generic message so internals never leak to the browser.
func ToAppError(err error) *apperr.AppError {
	if apiError, ok := err.(*APIError); ok {
		return apperr.FromStatus(apiError.Status, apiError.Message)
	}
	return apperr.BadGateway("The platform service is unavailable", err)
}

// # Client

// Client talks to the platform API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a platform API client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// detailEnvelope is the platform API's universal response wrapper.
type detailEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

// detailMessage extracts detail.message from an error body, best effort.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Detail.Message
}

// # Authentication

// LoginResult is the identity material returned by a successful login.
type LoginResult struct {
	Token    string
	UserID   string
	UserName string
	Profile  string
}

/*
Login exchanges credentials for a platform token via POST /api/users/login.

Parameters:
  - ctx: Request-scoped context.
  - email: The actor's login email.
  - password: The actor's password, relayed verbatim and never stored.

Returns:
  - *LoginResult: Token and actor identity on success.
  - error: *APIError when the platform rejects the credentials (its message
    is suitable to show the user), *TransportError when unreachable, or a
    decode error when a 2xx body is not the documented shape.
*/
func (client *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload, err := json.Marshal(map[string]string{
		constants.FieldEmail:  email,
		constants.FieldPasswd: password,
	})
	if err != nil {
		return nil, fmt.Errorf("upstream: encode login payload: %w", err)
	}

	body, err := client.roundTrip(ctx, http.MethodPost, "/api/users/login", "", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Detail struct {
			Message    string `json:"message"`
			UserName   string `json:"user_name"`
			UserID     string `json:"user_id"`
			Profile    string `json:"profile"`
			Token      string `json:"token"`
			StatusCode int    `json:"status_code"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("upstream: decode login response: %w", err)
	}
	if envelope.Detail.Token == "" {
		return nil, fmt.Errorf("upstream: login response missing token")
	}

	return &LoginResult{
		Token:    envelope.Detail.Token,
		UserID:   envelope.Detail.UserID,
		UserName: envelope.Detail.UserName,
		Profile:  envelope.Detail.Profile,
	}, nil
}

// # Proxy Verbs

// Get relays a GET and returns the raw detail payload.
func (client *Client) Get(ctx context.Context, path, bearer string, query url.Values) (json.RawMessage, error) {
	fullPath := path
	if len(query) > 0 {
		fullPath = path + "?" + query.Encode()
	}
	body, err := client.roundTrip(ctx, http.MethodGet, fullPath, bearer, "", nil)
	if err != nil {
		return nil, err
	}
	return unwrapDetail(body)
}

// Post relays a JSON POST and returns the raw detail payload.
func (client *Client) Post(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error) {
	return client.sendJSON(ctx, http.MethodPost, path, bearer, payload)
}

// Put relays a JSON PUT and returns the raw detail payload.
func (client *Client) Put(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error) {
	return client.sendJSON(ctx, http.MethodPut, path, bearer, payload)
}

// Patch relays a JSON PATCH and returns the raw detail payload.
func (client *Client) Patch(ctx context.Context, path, bearer string, payload any) (json.RawMessage, error) {
	return client.sendJSON(ctx, http.MethodPatch, path, bearer, payload)
}

// Delete relays a DELETE and returns the raw detail payload.
func (client *Client) Delete(ctx context.Context, path, bearer string) (json.RawMessage, error) {
	body, err := client.roundTrip(ctx, http.MethodDelete, path, bearer, "", nil)
	if err != nil {
		return nil, err
	}
	return unwrapDetail(body)
}

// PostRaw relays a request body as-is, preserving its content type. Used for
// multipart image uploads to the inference endpoints.
func (client *Client) PostRaw(ctx context.Context, path, bearer, contentType string, body io.Reader) (json.RawMessage, error) {
	responseBody, err := client.roundTrip(ctx, http.MethodPost, path, bearer, contentType, body)
	if err != nil {
		return nil, err
	}
	return unwrapDetail(responseBody)
}

// sendJSON marshals the payload and relays it with the given verb.
func (client *Client) sendJSON(ctx context.Context, method, path, bearer string, payload any) (json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream: encode payload: %w", err)
	}
	body, err := client.roundTrip(ctx, method, path, bearer, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	return unwrapDetail(body)
}

// unwrapDetail strips the detail envelope; bodies without one pass through.
func unwrapDetail(body []byte) (json.RawMessage, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var envelope detailEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		return envelope.Detail, nil
	}
	return json.RawMessage(body), nil
}

// roundTrip performs one HTTP exchange and classifies the outcome.
func (client *Client) roundTrip(ctx context.Context, method, path, bearer, contentType string, body io.Reader) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if bearer != "" {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)
	}
	request.Header.Set(constants.HeaderAccept, "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		message := detailMessage(responseBody)
		client.logger.Warn("upstream_rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", response.StatusCode),
		)
		return nil, &APIError{Status: response.StatusCode, Message: message}
	}

	return responseBody, nil
}
