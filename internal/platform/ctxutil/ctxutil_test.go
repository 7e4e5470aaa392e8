// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediscan/gateway/internal/platform/ctxutil"
	"github.com/mediscan/gateway/internal/session"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_MissingIsEmpty(t *testing.T) {
	assert.Empty(t, ctxutil.GetRequestID(context.Background()))
}

func TestLogger_RoundTrip(t *testing.T) {
	logger := slog.Default().With(slog.String("test", "yes"))
	ctx := ctxutil.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestLogger_MissingFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, ctxutil.GetLogger(context.Background()))
}

func TestSession_RoundTrip(t *testing.T) {
	state := session.Authenticated(session.User{ID: "usr-1", Profile: session.RoleProfessional}, "tok")
	ctx := ctxutil.WithSession(context.Background(), state)

	restored := ctxutil.GetSession(ctx)
	assert.True(t, restored.IsAuthenticated)
	assert.Equal(t, "usr-1", restored.User.ID)
}

func TestSession_MissingReadsAnonymous(t *testing.T) {
	state := ctxutil.GetSession(context.Background())
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.Valid())
}

func TestSessionTap_ObservesDownstreamRestore(t *testing.T) {
	ctx, tap := ctxutil.WithSessionTap(context.Background())

	_, restored := tap.State()
	assert.False(t, restored)

	// A restore on a descendant context fills the tap.
	child := context.WithValue(ctx, struct{}{}, "unrelated")
	ctxutil.WithSession(child, ctxutil.GetSession(child))

	state, restored := tap.State()
	assert.True(t, restored)
	assert.False(t, state.IsAuthenticated)
}

func TestSessionTap_CapturesAuthenticatedState(t *testing.T) {
	ctx, tap := ctxutil.WithSessionTap(context.Background())
	ctxutil.WithSession(ctx, session.Authenticated(session.User{ID: "usr-9"}, "tok"))

	state, restored := tap.State()
	assert.True(t, restored)
	assert.Equal(t, "usr-9", state.User.ID)
}
