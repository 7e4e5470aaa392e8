// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists audit entries via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connection pool as an audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert appends one entry to the audit_events table.
func (store *PostgresStore) Insert(ctx context.Context, entry Entry) error {
	const query = `
		INSERT INTO audit_events
			(action, session_id, user_id, email, profile, token_hash, detail, occurred_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := store.pool.Exec(ctx, query,
		entry.Action,
		entry.SessionID,
		entry.UserID,
		entry.Email,
		entry.Profile,
		entry.TokenHash,
		entry.Detail,
		entry.At,
	)
	if err != nil {
		return fmt.Errorf("audit: insert failed: %w", err)
	}

	return nil
}
