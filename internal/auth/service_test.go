// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediscan/gateway/internal/platform/apperr"
	"github.com/mediscan/gateway/internal/platform/constants"
	"github.com/mediscan/gateway/internal/session"
	"github.com/mediscan/gateway/internal/upstream"
)

// fakeAPI scripts the platform login outcome.
type fakeAPI struct {
	result *upstream.LoginResult
	err    error
	calls  int
}

func (api *fakeAPI) Login(ctx context.Context, email, password string) (*upstream.LoginResult, error) {
	api.calls++
	if api.err != nil {
		return nil, api.err
	}
	return api.result, nil
}

// memoryStore is an in-memory session.Store for service tests.
type memoryStore struct {
	records map[string]session.Record
	ttls    map[string]time.Duration
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string]session.Record),
		ttls:    make(map[string]time.Duration),
	}
}

func (store *memoryStore) Save(ctx context.Context, id string, record session.Record, ttl time.Duration) error {
	if store.saveErr != nil {
		return store.saveErr
	}
	store.records[id] = record
	store.ttls[id] = ttl
	return nil
}

func (store *memoryStore) Load(ctx context.Context, id string) (session.Record, error) {
	record, ok := store.records[id]
	if !ok {
		return session.Record{}, session.ErrNotFound
	}
	return record, nil
}

func (store *memoryStore) Clear(ctx context.Context, id string) error {
	delete(store.records, id)
	return nil
}

// capture subscribes to the hub and remembers everything published.
func capture(events *Events) *[]Event {
	var captured []Event
	events.Subscribe(func(event Event) {
		captured = append(captured, event)
	})
	return &captured
}

var testClock = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func signTestToken(t *testing.T, userID string, profile string, expiry time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   userID,
		"full_name": "Ana Souza",
		"email":     "ana@mediscan.health",
		"profile":   profile,
		"exp":       expiry.Unix(),
	}).SignedString([]byte("platform-key"))
	require.NoError(t, err)
	return raw
}

func newTestService(api LoginAPI, store session.Store, events *Events, maxTTL time.Duration) *Service {
	service := NewService(api, store, events, slog.Default(), maxTTL)
	service.now = func() time.Time { return testClock }
	service.generateID = func() string { return "sid-fixed" }
	return service
}

func TestService_Login_Success(t *testing.T) {
	raw := signTestToken(t, "usr-42", "professional", testClock.Add(2*time.Hour))
	api := &fakeAPI{result: &upstream.LoginResult{
		Token:    raw,
		UserID:   "usr-42",
		UserName: "Ana Souza",
		Profile:  "professional",
	}}
	store := newMemoryStore()
	events := NewEvents()
	captured := capture(events)

	service := newTestService(api, store, events, 24*time.Hour)

	sessionID, state, ttl, err := service.Login(context.Background(), "ana@mediscan.health", "pw")
	require.NoError(t, err)

	assert.Equal(t, "sid-fixed", sessionID)
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.Valid())
	assert.Equal(t, "usr-42", state.User.ID)
	assert.Equal(t, "Ana Souza", state.User.Name)
	assert.Equal(t, "ana@mediscan.health", state.User.Email)
	assert.Equal(t, session.RoleProfessional, state.User.Profile)
	assert.Equal(t, 2*time.Hour, ttl)

	// Persisted record matches the issued state.
	record := store.records["sid-fixed"]
	assert.Equal(t, raw, record.Token)
	assert.Equal(t, "usr-42", record.User.ID)

	require.Len(t, *captured, 1)
	assert.Equal(t, EventLogin, (*captured)[0].Type)
	assert.Equal(t, Fingerprint(raw), (*captured)[0].TokenHash)
	assert.NotEqual(t, raw, (*captured)[0].TokenHash)
}

func TestService_Login_TTLCappedByConfig(t *testing.T) {
	raw := signTestToken(t, "usr-42", "professional", testClock.Add(72*time.Hour))
	api := &fakeAPI{result: &upstream.LoginResult{Token: raw, UserID: "usr-42", Profile: "professional"}}
	store := newMemoryStore()

	service := newTestService(api, store, NewEvents(), 24*time.Hour)

	_, _, ttl, err := service.Login(context.Background(), "ana@mediscan.health", "pw")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
	assert.Equal(t, 24*time.Hour, store.ttls["sid-fixed"])
}

func TestService_Login_IdentityFromLoginResponse(t *testing.T) {
	// The platform sometimes issues tokens whose payload is only the email,
	// admin linkage, and expiry. The login response names the actor, so such
	// a login must still produce a fully populated session.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":    "ana@mediscan.health",
		"admin_id": "adm-7",
		"exp":      testClock.Add(time.Hour).Unix(),
	}).SignedString([]byte("platform-key"))
	require.NoError(t, err)

	api := &fakeAPI{result: &upstream.LoginResult{
		Token:    raw,
		UserID:   "usr-1",
		UserName: "Ana",
		Profile:  "professional",
	}}
	store := newMemoryStore()

	service := newTestService(api, store, NewEvents(), 24*time.Hour)

	_, state, _, err := service.Login(context.Background(), "ana@mediscan.health", "pw")
	require.NoError(t, err)

	require.True(t, state.IsAuthenticated)
	assert.Equal(t, "usr-1", state.User.ID)
	assert.Equal(t, "Ana", state.User.Name)
	assert.Equal(t, session.RoleProfessional, state.User.Profile)
	assert.Equal(t, "ana@mediscan.health", state.User.Email)
	assert.Equal(t, "adm-7", state.User.AdminID)

	// The persisted record carries the same identity for later restores.
	assert.Equal(t, "usr-1", store.records["sid-fixed"].User.ID)
	assert.Equal(t, "adm-7", store.records["sid-fixed"].User.AdminID)
}

func TestService_Login_RejectedKeepsUpstreamMessage(t *testing.T) {
	api := &fakeAPI{err: &upstream.APIError{Status: 401, Message: "Senha incorreta"}}
	store := newMemoryStore()
	events := NewEvents()
	captured := capture(events)

	service := newTestService(api, store, events, 24*time.Hour)

	_, state, _, err := service.Login(context.Background(), "ana@mediscan.health", "bad")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 401, appError.HTTPStatus)
	assert.Equal(t, "Senha incorreta", appError.Message)

	// Nothing persisted, caller left anonymous.
	assert.Empty(t, store.records)
	assert.False(t, state.IsAuthenticated)

	require.Len(t, *captured, 1)
	assert.Equal(t, EventLoginRejected, (*captured)[0].Type)
}

func TestService_Login_UnreachablePlatformUsesFallbackMessage(t *testing.T) {
	api := &fakeAPI{err: &upstream.TransportError{Cause: context.DeadlineExceeded}}
	store := newMemoryStore()

	service := newTestService(api, store, NewEvents(), 24*time.Hour)

	_, _, _, err := service.Login(context.Background(), "ana@mediscan.health", "pw")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 502, appError.HTTPStatus)
	assert.Equal(t, constants.LoginFallbackMessage, appError.Message)
	assert.Empty(t, store.records)
}

func TestService_Login_UndecodableTokenPersistsNothing(t *testing.T) {
	api := &fakeAPI{result: &upstream.LoginResult{Token: "not-a-jwt"}}
	store := newMemoryStore()

	service := newTestService(api, store, NewEvents(), 24*time.Hour)

	_, state, _, err := service.Login(context.Background(), "ana@mediscan.health", "pw")
	require.Error(t, err)
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, store.records)
}

func TestService_Logout_Idempotent(t *testing.T) {
	store := newMemoryStore()
	events := NewEvents()
	captured := capture(events)

	service := newTestService(&fakeAPI{}, store, events, 24*time.Hour)

	// Logging out a session that never existed still succeeds.
	assert.NoError(t, service.Logout(context.Background(), "ghost", session.Anonymous()))
	assert.NoError(t, service.Logout(context.Background(), "", session.Anonymous()))

	// The empty-ID call publishes nothing; the ghost call is a real logout.
	assert.Len(t, *captured, 1)
	assert.Equal(t, EventLogout, (*captured)[0].Type)
}

func TestService_Restore_LiveSession(t *testing.T) {
	raw := signTestToken(t, "usr-42", "administrator", testClock.Add(time.Hour))
	store := newMemoryStore()
	store.records["sid-1"] = session.Record{
		Token: raw,
		User:  session.User{ID: "usr-42", Profile: session.RoleAdministrator},
	}

	service := newTestService(&fakeAPI{}, store, NewEvents(), 24*time.Hour)

	state := service.Restore(context.Background(), "sid-1")
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "usr-42", state.User.ID)
	assert.Equal(t, raw, state.Token)
}

func TestService_Restore_UnknownSession(t *testing.T) {
	service := newTestService(&fakeAPI{}, newMemoryStore(), NewEvents(), 24*time.Hour)

	assert.False(t, service.Restore(context.Background(), "unknown").IsAuthenticated)
	assert.False(t, service.Restore(context.Background(), "").IsAuthenticated)
}

func TestService_Restore_ExpiredSessionCleared(t *testing.T) {
	raw := signTestToken(t, "usr-42", "professional", testClock.Add(-time.Minute))
	store := newMemoryStore()
	store.records["sid-1"] = session.Record{
		Token: raw,
		User:  session.User{ID: "usr-42", Profile: session.RoleProfessional},
	}
	events := NewEvents()
	captured := capture(events)

	service := newTestService(&fakeAPI{}, store, events, 24*time.Hour)

	state := service.Restore(context.Background(), "sid-1")
	assert.False(t, state.IsAuthenticated)

	// The dead record is gone and the expiry was observed.
	assert.Empty(t, store.records)
	require.Len(t, *captured, 1)
	assert.Equal(t, EventExpired, (*captured)[0].Type)
	assert.Equal(t, "usr-42", (*captured)[0].UserID)
}

func TestService_Restore_CorruptTokenCleared(t *testing.T) {
	store := newMemoryStore()
	store.records["sid-1"] = session.Record{
		Token: "garbage",
		User:  session.User{ID: "usr-42"},
	}
	events := NewEvents()
	captured := capture(events)

	service := newTestService(&fakeAPI{}, store, events, 24*time.Hour)

	state := service.Restore(context.Background(), "sid-1")
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, store.records)

	require.Len(t, *captured, 1)
	assert.Equal(t, EventRejected, (*captured)[0].Type)
}

func TestFingerprint_Stable(t *testing.T) {
	assert.Equal(t, Fingerprint("tok"), Fingerprint("tok"))
	assert.NotEqual(t, Fingerprint("tok"), Fingerprint("tok2"))
	assert.Len(t, Fingerprint("tok"), 64)
}
