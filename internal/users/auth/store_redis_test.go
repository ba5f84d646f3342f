// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/auth"
)

func newRedisStore(t *testing.T) (*auth.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewSessionStore(client), server
}

func TestRedisSessionStore_SaveAndFind(t *testing.T) {
	store, server := newRedisStore(t)

	state := auth.SessionState{
		UserID:        "64a000000000000000000001",
		Role:          sec.RoleAdmin,
		AntiCsrfToken: "csrf-token-value",
	}
	require.NoError(t, store.Save(context.Background(), state, auth.RefreshTokenTTL))

	found, err := store.Find(context.Background(), state.UserID)
	require.NoError(t, err)
	assert.Equal(t, state, *found)

	// The record lives under the session prefix with the refresh TTL.
	key := constants.RedisPrefixSession + state.UserID
	assert.True(t, server.Exists(key))
	assert.InDelta(t, auth.RefreshTokenTTL.Seconds(), server.TTL(key).Seconds(), 5)
}

func TestRedisSessionStore_SaveReplacesExisting(t *testing.T) {
	store, _ := newRedisStore(t)
	userID := "64a000000000000000000001"

	first := auth.SessionState{UserID: userID, Role: sec.RoleUser, AntiCsrfToken: "first"}
	require.NoError(t, store.Save(context.Background(), first, time.Hour))

	second := auth.SessionState{UserID: userID, Role: sec.RoleUser, AntiCsrfToken: "second"}
	require.NoError(t, store.Save(context.Background(), second, time.Hour))

	found, err := store.Find(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "second", found.AntiCsrfToken)
}

func TestRedisSessionStore_FindMissing(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Find(context.Background(), "64a000000000000000000001")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	store, server := newRedisStore(t)
	userID := "64a000000000000000000001"

	state := auth.SessionState{UserID: userID, Role: sec.RoleUser, AntiCsrfToken: "csrf"}
	require.NoError(t, store.Save(context.Background(), state, time.Minute))

	server.FastForward(time.Minute + time.Second)

	_, err := store.Find(context.Background(), userID)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

func TestRedisSessionStore_Delete(t *testing.T) {
	store, _ := newRedisStore(t)
	userID := "64a000000000000000000001"

	state := auth.SessionState{UserID: userID, Role: sec.RoleUser, AntiCsrfToken: "csrf"}
	require.NoError(t, store.Save(context.Background(), state, time.Hour))

	require.NoError(t, store.Delete(context.Background(), userID))

	_, err := store.Find(context.Background(), userID)
	assert.Error(t, err)

	// Deleting an absent session is not an error.
	assert.NoError(t, store.Delete(context.Background(), userID))
}
