// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/auth"
)

func TestIssuerHonorsConfiguredLifetimes(t *testing.T) {
	codec := sec.NewTokenCodec("test-signing-secret", constants.AuthIssuer)
	sessions := newFakeSessionStore()

	issuer := auth.NewIssuer(codec, sessions, auth.CookiePolicy{}, auth.TokenPolicy{
		AccessTTL:  time.Minute,
		RefreshTTL: 2 * time.Hour,
	})

	artifacts, err := issuer.IssueSession(context.Background(), "64a000000000000000000001", sec.RoleUser)
	require.NoError(t, err)

	now := time.Now().UTC()
	assert.WithinDuration(t, now.Add(time.Minute), artifacts.AccessTokenExpiry, 5*time.Second)
	assert.WithinDuration(t, now.Add(2*time.Hour), artifacts.RefreshTokenExpiry, 5*time.Second)
}

func TestIssuerZeroPolicyFallsBackToDefaults(t *testing.T) {
	codec := sec.NewTokenCodec("test-signing-secret", constants.AuthIssuer)
	sessions := newFakeSessionStore()

	issuer := auth.NewIssuer(codec, sessions, auth.CookiePolicy{}, auth.TokenPolicy{})

	artifacts, err := issuer.IssueSession(context.Background(), "64a000000000000000000001", sec.RoleUser)
	require.NoError(t, err)

	now := time.Now().UTC()
	assert.WithinDuration(t, now.Add(auth.AccessTokenTTL), artifacts.AccessTokenExpiry, 5*time.Second)
	assert.WithinDuration(t, now.Add(auth.RefreshTokenTTL), artifacts.RefreshTokenExpiry, 5*time.Second)
}
