// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
)

// RedisSessionStore implements SessionStore using Redis.
//
// Sessions are stored as JSON under one key per user; the whole state is
// replaced on every write, never patched field by field.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed SessionStore.
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

/*
Save writes the full session state, replacing any existing record.

Parameters:
  - context: context.Context
  - state: SessionState
  - ttl: time.Duration

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisSessionStore) Save(context context.Context, state SessionState, ttl time.Duration) error {

	// Serialize the whole state as one value
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixSession + state.UserID

	// Write with the supplied TTL
	if err := store.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

/*
Find returns the session state for the given user.

Description: Returns apperr.Unauthorized if no session exists, so gate
checks map directly to a 401.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *SessionState: Hydrated state
  - error: apperr.Unauthorized or retrieval failures
*/
func (store *RedisSessionStore) Find(context context.Context, userID string) (*SessionState, error) {
	key := constants.RedisPrefixSession + userID

	payload, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.Unauthorized("No active session")
		}
		return nil, fmt.Errorf("redis_session_find_failed: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return &state, nil
}

/*
Delete destroys the session state.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (store *RedisSessionStore) Delete(context context.Context, userID string) error {
	key := constants.RedisPrefixSession + userID

	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}
