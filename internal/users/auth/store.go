// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/sec"
)

// ErrMfaAttemptsExhausted is returned by ConsumeMfaAttempt when the attempt
// budget was already spent, including when a concurrent call spent it first.
var ErrMfaAttemptsExhausted = errors.New("auth: mfa attempt budget exhausted")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (24-char hex document ID)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Description: A duplicate-key violation on the unique email index is
		translated to apperr.DuplicateEmail, never surfaced as a generic
		storage failure.

		Parameters:
		  - context: context.Context
		  - user: *User (ID is assigned by the store)

		Returns:
		  - error: apperr.DuplicateEmail or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		MarkEmailVerified flips emailVerified to true and clears the
		verification window. Safe to call on an already-verified account.
	*/
	MarkEmailVerified(context context.Context, userID string) error

	/*
		RenewVerificationWindow resets the 24h verification due-by timestamp
		when a fresh verification email is issued.
	*/
	RenewVerificationWindow(context context.Context, userID string, dueBy time.Time) error

	/*
		SetResetToken stores the first-stage password reset token,
		overwriting any prior one. Starting a new reset request invalidates
		completion with an earlier token pair.
	*/
	SetResetToken(context context.Context, userID, token string) error

	/*
		SetResetVerifiedToken stores the second-stage token proving the
		emailed code was matched.
	*/
	SetResetVerifiedToken(context context.Context, userID, token string) error

	/*
		CompletePasswordReset replaces the password hash and clears both
		reset tokens in a single update.
	*/
	CompletePasswordReset(context context.Context, userID, newHash string) error

	/*
		EnrollMfaSecret stores the encrypted MFA shared secret and resets
		mfaVerified to false (enrollment pending confirmation).
	*/
	EnrollMfaSecret(context context.Context, userID, encryptedSecret string) error

	/*
		OpenMfaWindow stamps mfaStartTime and zeroes the attempt counter.
		This is the only way a verification window opens.
	*/
	OpenMfaWindow(context context.Context, userID string, startedAt time.Time) error

	/*
		ConsumeMfaAttempt atomically increments the attempt counter, but
		only while it is below the budget.

		Description: The increment is a conditional update keyed on the
		current counter value, so the budget holds as a hard bound even
		under concurrent verification calls.

		Returns:
		  - int: The counter value after the increment
		  - error: ErrMfaAttemptsExhausted when the budget was already spent
	*/
	ConsumeMfaAttempt(context context.Context, userID string) (int, error)

	/*
		CompleteMfaVerification marks the secret as proven: mfaVerified
		true, attempts zeroed, window closed.
	*/
	CompleteMfaVerification(context context.Context, userID string) error

	/*
		LinkOauthAccount converts an account to third-party authentication:
		sets the provider, clears the password hash, and marks the email
		verified.
	*/
	LinkOauthAccount(context context.Context, userID string, provider OauthProvider) error
}

// # Session Data Access

// SessionState is the server-side record for a logged-in user.
//
// It is written back as a whole on every change, never mutated piecemeal.
type SessionState struct {
	UserID        string   `json:"userId"`
	Role          sec.Role `json:"role"`
	AntiCsrfToken string   `json:"antiCsrfToken"`
}

// SessionStore defines the contract for volatile session state, keyed by
// user ID with a TTL matching the refresh token lifetime.
type SessionStore interface {

	/*
		Save writes the full session state, replacing any existing record.
	*/
	Save(context context.Context, state SessionState, ttl time.Duration) error

	/*
		Find returns the session state for the given user.

		Returns:
		  - *SessionState: Hydrated state
		  - error: apperr.Unauthorized when no session exists
	*/
	Find(context context.Context, userID string) (*SessionState, error)

	/*
		Delete destroys the session state on logout or account deletion.
	*/
	Delete(context context.Context, userID string) error
}
