// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/mediscan/gateway/internal/platform/constants"
)

// Cookies encodes the opaque session identifier into a tamper-evident,
// HttpOnly browser cookie.
//
// # Trust Model
//
// The cookie value is HMAC-signed, not encrypted: the session ID is random
// and carries no information, so confidentiality adds nothing. Signing stops
// a client from forging or splicing identifiers.
type Cookies struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewCookies creates the cookie codec from the configured session secret.
//
// # Parameters
//   - secret: HMAC key material (32+ bytes recommended)
//   - secure: Whether to set the Secure attribute (disabled for local HTTP development)
func NewCookies(secret string, secure bool) (*Cookies, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("session: cookie secret too short (%d bytes)", len(secret))
	}

	codec := securecookie.New([]byte(secret), nil)
	codec.MaxAge(0) // expiry is carried by the cookie attributes, not the payload

	return &Cookies{codec: codec, secure: secure}, nil
}

// NewID mints a fresh opaque session identifier.
//
// UUID v7 keeps identifiers time-sortable in the store; v4 is the fallback
// if the monotonic source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Write sets the session cookie for the given identifier.
func (c *Cookies) Write(writer http.ResponseWriter, id string, ttl time.Duration) error {
	encoded, err := c.codec.Encode(constants.SessionCookieName, id)
	if err != nil {
		return fmt.Errorf("session: cookie encode failed: %w", err)
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    encoded,
		Path:     constants.SessionCookiePath,
		Expires:  time.Now().Add(ttl),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Read extracts and authenticates the session identifier from the request.
// It returns false for missing, malformed, or tampered cookies.
func (c *Cookies) Read(request *http.Request) (string, bool) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var id string
	if err := c.codec.Decode(constants.SessionCookieName, cookie.Value, &id); err != nil {
		return "", false
	}

	return id, id != ""
}

// Delete expires the session cookie on the client.
func (c *Cookies) Delete(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
