// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing,
// Secret Encryption, One-Time Codes) from the domain logic. It acts as an
// Infrastructure service injected into the Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures are split by cause because callers route them
// differently (e.g. the email-verification redirect reason).
var (
	// ErrTokenExpired is returned when a token's signature is valid but its
	// expiry has passed.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenMalformed is returned for any other verification failure:
	// bad signature, wrong algorithm, garbled payload.
	ErrTokenMalformed = errors.New("sec: token malformed")
)

// Claims is the payload embedded inside every signed token the service issues.
//
// Only the fields relevant to a given token purpose are set: access and
// refresh tokens carry UserID, email-verification tokens carry Email, and
// password-reset tokens carry ResetCode. Claims are integrity-protected but
// NOT encrypted — callers must never place secret material here.
type Claims struct {
	jwt.RegisteredClaims

	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email,omitempty"`
	ResetCode string `json:"resetCode,omitempty"`
}

// TokenCodec signs and verifies compact, expiring, tamper-evident tokens
// using HMAC-SHA256 with a single server-held secret.
//
// Tokens are self-contained: verification needs no server-side lookup.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec creates a codec bound to the given signing secret and issuer.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), issuer: issuer}
}

// Sign produces a signed token carrying the given claims, valid for ttl.
func (codec *TokenCodec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.Issuer = codec.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token string and returns its claims.
//
// It fails with [ErrTokenExpired] or [ErrTokenMalformed]; no other errors escape.
func (codec *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// DecodeUnverified extracts claims from a token WITHOUT validating the
// signature or expiry. Used only to recover a hint (e.g. the email on an
// expired verification link) for redirect construction — never for authorization.
func (codec *TokenCodec) DecodeUnverified(tokenString string) *Claims {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}
