// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package constants provides centralized, immutable values for the gateway.

It defines default timeouts, rate limits, and cross-cutting keys that are
shared between the transport, auth, and proxy layers.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie configuration and store taxonomy.
  - Navigation: The SPA routes the guards redirect to.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mediscan-gateway"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Prediction uploads stream image bodies, so this matches the global
	// request deadline rather than a header-sized budget.
	DefaultReadTimeout = 60 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of
	// the response. Kept above GlobalRequestTimeout so the timeout handler
	// answers first and the client gets a response instead of a reset.
	DefaultWriteTimeout = 90 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Prediction uploads relay multi-megabyte images upstream, so this is
	// longer than a typical CRUD budget.
	GlobalRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// LoginRateLimitRPS throttles credential submission per IP. Kept low:
	// a browser performs at most a handful of login attempts per minute.
	LoginRateLimitRPS = 1.0

	// LoginRateLimitBurst is the burst allowance for the login limiter.
	LoginRateLimitBurst = 5

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// SessionCookieName is the cookie carrying the opaque session identifier.
	SessionCookieName = "mediscan_session"

	// SessionCookiePath scopes the session cookie to the whole origin so
	// every gateway route can restore the session.
	SessionCookiePath = "/"

	// RedisPrefixSession namespaces session records in Redis.
	RedisPrefixSession = "session:"
)

// # Navigation

// SPA routes the guards redirect browser navigations to. These mirror the
// front-end router: unauthenticated actors land on the login view, while
// authenticated-but-unauthorized actors land on the default dashboard.
const (
	LoginRoute   = "/login"
	LandingRoute = "/dashboard"
)

// # Authentication Messages

const (
	// LoginFallbackMessage is shown when the platform API rejects a login
	// without a usable message, or cannot be reached at all.
	LoginFallbackMessage = "Erro ao fazer login. Verifique suas credenciais."
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldEmail   = "email"
	FieldPasswd  = "password"
)
