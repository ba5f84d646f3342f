// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Request budgets and IP tracking TTLs.
  - Security: Cookie names and the anti-CSRF header.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "fairway-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// RateLimitRequests is the number of requests allowed per window per IP.
	RateLimitRequests = 20

	// RateLimitWindow is the refill window for the per-IP token bucket.
	RateLimitWindow = 60 * time.Second

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in signed tokens, and the TOTP
	// provisioning issuer shown in authenticator apps.
	AuthIssuer = "fairway.golf"

	// AccessTokenCookieName is the cookie that carries the short-lived access token.
	AccessTokenCookieName = "accessToken"

	// RefreshTokenCookieName is the cookie that carries the long-lived refresh token.
	RefreshTokenCookieName = "refreshToken"

	// OauthStateCookieName is the cookie that carries the OAuth state token
	// between the authorize redirect and the provider callback.
	OauthStateCookieName = "oauthState"

	// AntiCsrfHeader is the request header that must echo the session's
	// anti-CSRF token on state-changing authenticated routes.
	AntiCsrfHeader = "x-anti-csrf-token"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Session Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)
