// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package sec

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCodec_SignAndVerify(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")

	signed, err := codec.Sign(Claims{UserID: "u-1", Email: "pro@fairway.golf"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "pro@fairway.golf", claims.Email)
	assert.Equal(t, "fairway.golf", claims.Issuer)
}

func TestTokenCodec_VerifyExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")

	signed, err := codec.Sign(Claims{UserID: "u-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_VerifyMalformed(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")

	_, err := codec.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenCodec_VerifyWrongKey(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")
	other := NewTokenCodec("other-secret", "fairway.golf")

	signed, err := codec.Sign(Claims{UserID: "u-1"}, time.Hour)
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenCodec_VerifyWrongAlgorithm(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")

	// Tokens signed with anything other than HMAC must be rejected even if
	// they otherwise parse.
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": "u-1"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenCodec_DecodeUnverified(t *testing.T) {
	codec := NewTokenCodec("test-secret", "fairway.golf")

	signed, err := codec.Sign(Claims{UserID: "u-1", Email: "pro@fairway.golf"}, -time.Minute)
	require.NoError(t, err)

	claims := codec.DecodeUnverified(signed)
	require.NotNil(t, claims)
	assert.Equal(t, "pro@fairway.golf", claims.Email)

	assert.Nil(t, codec.DecodeUnverified("garbage"))
}
