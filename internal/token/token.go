// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package token decodes the platform API's JWT credentials into typed claims.

The gateway is a relay, not the token's issuer. It never holds the signing
key, so it deliberately does NOT verify signatures: the platform API is the
sole verifier, and rejects a forged or tampered token on the first proxied
call. What the gateway needs from the token is its payload (who the actor
is, what role they hold) and its expiry, both of which are readable without
the key.

Trust Boundary:

  - Decode: payload extraction only, no signature check.
  - Expiry: evaluated locally so dead sessions are dropped without an
    upstream round trip.
  - Authenticity: enforced upstream on every relayed request.
*/
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mediscan/gateway/internal/session"
)

var (
	// ErrDecode indicates the credential is not a structurally valid JWT,
	// or its payload lacks an expiry.
	ErrDecode = errors.New("token: malformed credential")

	// ErrExpired indicates a structurally valid credential whose expiry
	// instant has passed.
	ErrExpired = errors.New("token: credential expired")
)

// Claims is the payload the platform API embeds in its login tokens.
type Claims struct {
	UserID   string       `json:"user_id"`
	FullName string       `json:"full_name"`
	Email    string       `json:"email"`
	Profile  session.Role `json:"profile"`
	AdminID  string       `json:"admin_id,omitempty"`

	jwt.RegisteredClaims
}

// decoder parses without validating claims: expiry is checked separately so
// an expired token still yields readable claims for logging.
var decoder = jwt.NewParser(jwt.WithoutClaimsValidation())

/*
Decode extracts the typed claims from a raw JWT string.

The signature is intentionally not verified; see the package comment for the
trust model.

Parameters:
  - raw: The compact JWT string as received from the platform API.

Returns:
  - *Claims: Decoded payload, valid even when the token is expired.
  - error: ErrDecode if the string is not a JWT or the expiry is missing.
*/
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}

	if _, _, err := decoder.ParseUnverified(raw, claims); err != nil {
		return nil, ErrDecode
	}

	// The expiry is the only claim a session cannot live without. Identity
	// fields are optional here: the login response carries the actor's id,
	// name, and role, and some platform tokens omit them entirely.
	if claims.ExpiresAt == nil {
		return nil, ErrDecode
	}

	return claims, nil
}

// Expired reports whether the credential is no longer usable at the given
// instant. The boundary is inclusive: a token expiring exactly now is dead.
func (claims *Claims) Expired(now time.Time) bool {
	return !claims.ExpiresAt.Time.After(now)
}

// TTL returns how long the credential remains valid from the given instant.
// Expired credentials yield a non-positive duration.
func (claims *Claims) TTL(now time.Time) time.Duration {
	return claims.ExpiresAt.Time.Sub(now)
}
