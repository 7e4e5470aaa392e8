// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

/*
Package audit persists the gateway's session lifecycle as an append-only
trail.

A medical platform has to answer "who was signed in, when, and what were
they refused" long after the sessions themselves are gone from Redis. The
recorder subscribes to the auth event hub and writes one row per transition
to PostgreSQL.

Data Hygiene:

  - Raw tokens never reach this package; events carry SHA-256 fingerprints.
  - Passwords are never part of any event.
  - Rows are inserts only; nothing here updates or deletes.
*/
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/mediscan/gateway/internal/auth"
)

// Entry is one persisted lifecycle row.
type Entry struct {
	Action    string
	SessionID string
	UserID    string
	Email     string
	Profile   string
	TokenHash string
	Detail    string
	At        time.Time
}

// Store persists audit entries.
type Store interface {
	// Insert appends one entry to the trail.
	Insert(ctx context.Context, entry Entry) error
}

// Recorder turns auth events into audit rows.
//
// # Failure Model
//
// Auditing must never take the request path down with it: writes run on
// their own goroutine with their own timeout, and a failed insert is logged
// and dropped.
type Recorder struct {
	store  Store
	logger *slog.Logger

	// writeTimeout bounds each insert so a stalled database cannot pile up
	// goroutines forever.
	writeTimeout time.Duration
}

// NewRecorder creates a recorder writing to the given store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:        store,
		logger:       logger,
		writeTimeout: 5 * time.Second,
	}
}

// Subscribe attaches the recorder to the event hub. Each event is persisted
// asynchronously.
func (recorder *Recorder) Subscribe(events *auth.Events) {
	events.Subscribe(func(event auth.Event) {
		go recorder.Record(event)
	})
}

// Record persists a single event synchronously. Exposed separately from
// Subscribe so tests can call it without goroutine coordination.
func (recorder *Recorder) Record(event auth.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), recorder.writeTimeout)
	defer cancel()

	entry := Entry{
		Action:    string(event.Type),
		SessionID: event.SessionID,
		UserID:    event.UserID,
		Email:     event.Email,
		Profile:   event.Profile,
		TokenHash: event.TokenHash,
		Detail:    event.Detail,
		At:        event.At,
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	if err := recorder.store.Insert(ctx, entry); err != nil {
		recorder.logger.Error("audit_write_failed",
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
	}
}
