// Copyright (c) 2026 MediScan. All rights reserved.
// Author: eng@mediscan.health

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediscan/gateway/internal/platform/constants"
)

// RedisStore implements [Store] on Redis.
//
// Each session is one JSON document under a prefixed key. Redis TTL handles
// expiry housekeeping, but the auth service still checks the credential's
// own expiry claim on every restore. The TTL is a cleanup mechanism, not
// the source of truth.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: constants.RedisPrefixSession}
}

// Save writes the serialized record with the given TTL.
func (store *RedisStore) Save(context context.Context, id string, record Record, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("redis_session_save_failed: empty session id")
	}
	if ttl <= 0 {
		return fmt.Errorf("redis_session_save_failed: non-positive ttl")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	if err := store.client.Set(context, store.prefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

// Load retrieves and decodes the record for the given session ID.
//
// A corrupted payload is treated the same as an absent one: the key is
// removed and [ErrNotFound] is returned, so callers never act on a
// partially-usable record.
func (store *RedisStore) Load(context context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, ErrNotFound
	}

	payload, err := store.client.Get(context, store.prefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		_ = store.client.Del(context, store.prefix+id).Err()
		return Record{}, ErrNotFound
	}

	return record, nil
}

// Clear deletes the record. Deleting a missing key succeeds.
func (store *RedisStore) Clear(context context.Context, id string) error {
	if id == "" {
		return nil
	}

	if err := store.client.Del(context, store.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w", err)
	}

	return nil
}
