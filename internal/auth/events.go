// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package auth

import (
	"sync"
	"time"
)

// # Lifecycle Events

// EventType classifies a session lifecycle transition.
type EventType string

const (
	// EventLogin fires when credentials are accepted and a session is created.
	EventLogin EventType = "login"

	// EventLoginRejected fires when the platform refuses the credentials.
	EventLoginRejected EventType = "login_rejected"

	// EventLogout fires when an actor explicitly ends their session.
	EventLogout EventType = "logout"

	// EventExpired fires when a restore finds the stored credential past
	// its expiry instant.
	EventExpired EventType = "expired"

	// EventRejected fires when a restore finds a stored credential that no
	// longer decodes.
	EventRejected EventType = "rejected"

	// EventDenied fires when an authenticated actor is turned away from a
	// route their role does not grant.
	EventDenied EventType = "denied"
)

// Event is an immutable record of one session transition.
//
// TokenHash is a fingerprint of the credential, never the credential itself,
// so subscribers can correlate events without being able to replay tokens.
type Event struct {
	Type      EventType
	SessionID string
	UserID    string
	Email     string
	Profile   string
	TokenHash string
	Detail    string
	At        time.Time
}

// Subscriber consumes session lifecycle events.
type Subscriber func(event Event)

// Events fans session transitions out to registered subscribers.
//
// # Concurrency
//
// Publish delivers synchronously, in registration order, on the caller's
// goroutine. Subscribers that need to do slow work (database writes) should
// hand the event off to their own goroutine.
type Events struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewEvents creates an event hub with no subscribers.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe registers a subscriber for all future events.
func (events *Events) Subscribe(subscriber Subscriber) {
	events.mu.Lock()
	defer events.mu.Unlock()
	events.subscribers = append(events.subscribers, subscriber)
}

// Publish delivers the event to every subscriber.
func (events *Events) Publish(event Event) {
	events.mu.RLock()
	defer events.mu.RUnlock()
	for _, subscriber := range events.subscribers {
		subscriber(event)
	}
}
