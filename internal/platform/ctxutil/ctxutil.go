// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/mediscan/gateway/internal/platform/ctxkey"
	"github.com/mediscan/gateway/internal/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Session State

// SessionTap lets a middleware that runs OUTSIDE the session restore observe
// the state the restore commits. Context values only flow downward, so the
// outer observer installs a tap and [WithSession] fills it as a side effect.
//
// A tap belongs to a single request; it is written and read on the request's
// goroutine, in that order.
type SessionTap struct {
	state session.State
	set   bool
}

// State returns the captured session state, and whether a restore ran at all
// on this request.
func (tap *SessionTap) State() (session.State, bool) {
	return tap.state, tap.set
}

// WithSessionTap installs a tap that captures the state of any later
// [WithSession] call on a descendant context.
func WithSessionTap(ctx context.Context) (context.Context, *SessionTap) {
	tap := &SessionTap{}
	return context.WithValue(ctx, ctxkey.KeySessionTap, tap), tap
}

// WithSession returns a new context carrying the restored session state.
//
// Only the restore middleware writes this value; everything downstream is a
// reader. The stored [session.State] is a committed snapshot: by the time a
// guard or handler observes it, the restore has fully resolved to either
// authenticated or anonymous.
func WithSession(ctx context.Context, state session.State) context.Context {
	if tap, ok := ctx.Value(ctxkey.KeySessionTap).(*SessionTap); ok {
		tap.state = state
		tap.set = true
	}
	return context.WithValue(ctx, ctxkey.KeySession, state)
}

// GetSession retrieves the session state from the context.
// Requests that never passed the restore middleware read as anonymous.
func GetSession(ctx context.Context) session.State {
	state, ok := ctx.Value(ctxkey.KeySession).(session.State)
	if !ok {
		return session.Anonymous()
	}
	return state
}
