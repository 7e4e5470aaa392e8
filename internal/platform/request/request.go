// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/platform/ctxutil"
	"github.com/mediscan/gateway/internal/platform/validate"
	"github.com/mediscan/gateway/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session returns the restored session state for the request.

Requests that never passed the restore middleware read as anonymous.
*/
func Session(request *http.Request) session.State {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request is authenticated and returns its state.

Returns:
  - session.State: An authenticated state (User non-nil, Token non-empty)
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredSession(request *http.Request) (session.State, error) {
	state := ctxutil.GetSession(request.Context())
	if !state.IsAuthenticated {
		return session.Anonymous(), apperr.Unauthorized("Authentication required")
	}
	return state, nil
}

/*
BearerToken returns the platform credential of the authenticated caller,
used by proxy services to impersonate the actor upstream.

Returns:
  - string: Raw bearer token
  - error: apperr.Unauthorized if the request is anonymous
*/
func BearerToken(request *http.Request) (string, error) {
	state, err := RequiredSession(request)
	if err != nil {
		return "", err
	}
	return state.Token, nil
}
