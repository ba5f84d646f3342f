// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration an access token remains valid.
	// Short (1h) to minimize the impact of a leaked token.
	AccessTokenTTL = 1 * time.Hour

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (7 days) to provide a good user experience.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// VerificationTokenTTL is the duration an email verification token
	// remains valid. Long-lived (24 hours) as users might not check email
	// immediately.
	VerificationTokenTTL = 24 * time.Hour

	// ResetTokenTTL is the duration each stage of the password reset
	// remains valid. Short-lived (15 minutes) for security.
	ResetTokenTTL = 15 * time.Minute

	// AntiCsrfTokenLength is the byte length of the random anti-CSRF token.
	AntiCsrfTokenLength = 32

	// OauthStateLength is the byte length of the random OAuth state token.
	OauthStateLength = 32
)

// # MFA Constraints

const (
	// MfaWindow is how long a verification window stays open after
	// StartVerifyMFA before code submissions are rejected as expired.
	MfaWindow = 10 * time.Minute

	// MaxMfaAttempts is the hard bound on wrong codes within one window.
	// The attempt after the limit always fails, even with a correct code.
	MaxMfaAttempts = 5
)
