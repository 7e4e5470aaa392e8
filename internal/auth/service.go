// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package auth owns the gateway's session lifecycle.

It is the single writer of session state: logins create records, logouts and
dead credentials destroy them, and every request's identity is restored here
before any handler runs.

State Machine (per request):

  - No cookie / unknown ID  → anonymous.
  - Stored credential dead  → record cleared, anonymous.
  - Stored credential live  → authenticated with the recorded identity.

Every transition is published on the event hub so the audit trail observes
the lifecycle without the service knowing who is listening.
*/
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/session"
	"github.com/mediscan/gateway/internal/token"
	"github.com/mediscan/gateway/internal/upstream"
)

// LoginAPI is the slice of the platform client the service needs.
type LoginAPI interface {
	Login(ctx context.Context, email, password string) (*upstream.LoginResult, error)
}

// Service coordinates the platform API, the session store, and the event hub.
type Service struct {
	api        LoginAPI
	store      session.Store
	events     *Events
	logger     *slog.Logger
	maxTTL     time.Duration
	now        func() time.Time
	generateID func() string
}

// NewService wires the session lifecycle coordinator.
//
// maxTTL caps how long a session record may live, even when the platform
// issues a credential with a later expiry.
func NewService(api LoginAPI, store session.Store, events *Events, logger *slog.Logger, maxTTL time.Duration) *Service {
	return &Service{
		api:        api,
		store:      store,
		events:     events,
		logger:     logger,
		maxTTL:     maxTTL,
		now:        time.Now,
		generateID: session.NewID,
	}
}

// # Login

/*
Login authenticates against the platform API and creates a session.

Nothing is persisted unless every step succeeds: a rejected credential, an
unreachable platform, or a token that does not decode all leave the store
untouched.

Parameters:
  - ctx: Request-scoped context.
  - email: The actor's login email.
  - password: Relayed to the platform, never stored or logged.

Returns:
  - string: The new opaque session identifier.
  - session.State: The authenticated state for the response body.
  - time.Duration: The session TTL, for the cookie's Max-Age.
  - error: An apperr with a user-presentable message on any failure.
*/
func (service *Service) Login(ctx context.Context, email, password string) (string, session.State, time.Duration, error) {
	result, err := service.api.Login(ctx, email, password)
	if err != nil {
		return "", session.Anonymous(), 0, service.loginFailure(email, err)
	}

	claims, err := token.Decode(result.Token)
	if err != nil {
		// A 2xx login whose token does not decode is a platform contract
		// break, not a credential problem. Surface it as a gateway fault.
		service.logger.Error("login_token_undecodable", slog.String("email", email))
		return "", session.Anonymous(), 0, apperr.BadGateway(constants.LoginFallbackMessage, err)
	}

	now := service.now()
	if claims.Expired(now) {
		service.logger.Error("login_token_preexpired", slog.String("email", email))
		return "", session.Anonymous(), 0, apperr.BadGateway(constants.LoginFallbackMessage, token.ErrExpired)
	}

	ttl := claims.TTL(now)
	if service.maxTTL > 0 && ttl > service.maxTTL {
		ttl = service.maxTTL
	}

	// Identity splits across the two artifacts: the login response names the
	// actor (id, name, role), the token contributes email and admin linkage.
	user := session.User{
		ID:      result.UserID,
		Name:    result.UserName,
		Email:   claims.Email,
		Profile: session.Role(result.Profile),
		AdminID: claims.AdminID,
	}
	sessionID := service.generateID()
	record := session.Record{Token: result.Token, User: user}

	if err := service.store.Save(ctx, sessionID, record, ttl); err != nil {
		return "", session.Anonymous(), 0, apperr.Internal(err)
	}

	service.events.Publish(Event{
		Type:      EventLogin,
		SessionID: sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		Profile:   string(user.Profile),
		TokenHash: Fingerprint(result.Token),
		At:        now,
	})

	return sessionID, session.Authenticated(user, result.Token), ttl, nil
}

// loginFailure converts an upstream login error into the user-facing form
// and publishes the rejection.
func (service *Service) loginFailure(email string, err error) error {
	appError := upstream.ToAppError(err)

	// A rejection without a usable upstream message gets the standard
	// credential hint; so does an unreachable platform.
	if appError.Message == "" || appError.HTTPStatus >= 500 {
		appError.Message = constants.LoginFallbackMessage
	}

	service.events.Publish(Event{
		Type:   EventLoginRejected,
		Email:  email,
		Detail: appError.Code,
		At:     service.now(),
	})

	return appError
}

// # Logout

// Logout destroys the session record. It is idempotent: logging out an
// unknown or already-cleared session succeeds silently.
func (service *Service) Logout(ctx context.Context, sessionID string, state session.State) error {
	if sessionID == "" {
		return nil
	}

	if err := service.store.Clear(ctx, sessionID); err != nil {
		return apperr.Internal(err)
	}

	event := Event{Type: EventLogout, SessionID: sessionID, At: service.now()}
	if state.IsAuthenticated {
		event.UserID = state.User.ID
		event.Email = state.User.Email
		event.Profile = string(state.User.Profile)
		event.TokenHash = Fingerprint(state.Token)
	}
	service.events.Publish(event)

	return nil
}

// # Restore

/*
Restore resolves a session identifier into the request's identity.

Dead sessions are destroyed as a side effect, so the next request with the
same cookie short-circuits to anonymous without decoding anything.

Returns:
  - session.State: Authenticated when the stored credential is live,
    anonymous in every other case. Restore never fails the request; a
    broken store degrades to anonymous.
*/
func (service *Service) Restore(ctx context.Context, sessionID string) session.State {
	if sessionID == "" {
		return session.Anonymous()
	}

	record, err := service.store.Load(ctx, sessionID)
	if err != nil {
		if err != session.ErrNotFound {
			service.logger.Error("session_restore_failed", slog.Any("error", err))
		}
		return session.Anonymous()
	}

	claims, err := token.Decode(record.Token)
	if err != nil {
		service.discard(ctx, sessionID, record, EventRejected, "credential no longer decodes")
		return session.Anonymous()
	}

	if claims.Expired(service.now()) {
		service.discard(ctx, sessionID, record, EventExpired, "credential expired")
		return session.Anonymous()
	}

	return session.Authenticated(record.User, record.Token)
}

// discard clears a dead session and publishes why.
func (service *Service) discard(ctx context.Context, sessionID string, record session.Record, eventType EventType, detail string) {
	if err := service.store.Clear(ctx, sessionID); err != nil {
		service.logger.Error("session_discard_failed", slog.Any("error", err))
	}

	service.events.Publish(Event{
		Type:      eventType,
		SessionID: sessionID,
		UserID:    record.User.ID,
		Email:     record.User.Email,
		Profile:   string(record.User.Profile),
		TokenHash: Fingerprint(record.Token),
		Detail:    detail,
		At:        service.now(),
	})
}

// Fingerprint returns a hex SHA-256 digest of a credential, safe to log and
// persist where the raw token must never appear.
func Fingerprint(raw string) string {
	digest := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(digest[:])
}
