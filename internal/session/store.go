// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by [Store.Load] when no usable record exists for
// the given session ID. Absent keys and unparseable payloads are reported
// identically: a record is either fully present or treated as missing.
var ErrNotFound = errors.New("session: record not found")

// # Store Contract

// Store persists session records across gateway restarts.
type Store interface {

	/*
		Save writes the complete record for a session in a single operation.

		Parameters:
		  - context: context.Context
		  - id: Opaque session identifier
		  - record: Token + user projection, persisted atomically
		  - ttl: Remaining credential lifetime; must be positive

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, id string, record Record, ttl time.Duration) error

	/*
		Load returns the record for a session.

		Parameters:
		  - context: context.Context
		  - id: Opaque session identifier

		Returns:
		  - Record: The persisted token + user pair
		  - error: [ErrNotFound] when absent or unparseable, else connectivity errors
	*/
	Load(context context.Context, id string) (Record, error)

	/*
		Clear removes the record for a session. Clearing a session that does
		not exist is not an error (idempotent).

		Parameters:
		  - context: context.Context
		  - id: Opaque session identifier

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context, id string) error
}
