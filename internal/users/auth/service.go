// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/ctxutil"
	"github.com/fairwaylabs/fairway/internal/platform/email"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/round"
	"github.com/fairwaylabs/fairway/pkg/pointer"
)

// # Contracts & Types

// Service implements the credential and MFA state machine.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// issuance, or the MFA flow must be reviewed by the security team.
type Service struct {
	users     UserRepository
	sessions  SessionStore
	issuer    *Issuer
	codec     *sec.TokenCodec
	secretBox *sec.SecretBox
	mailer    email.Sender
}

// NewService constructs the credential service with its dependencies.
func NewService(
	users UserRepository,
	sessions SessionStore,
	issuer *Issuer,
	codec *sec.TokenCodec,
	secretBox *sec.SecretBox,
	mailer email.Sender,
) *Service {
	return &Service{
		users:     users,
		sessions:  sessions,
		issuer:    issuer,
		codec:     codec,
		secretBox: secretBox,
		mailer:    mailer,
	}
}

// # Registration Flow

/*
Register creates a brand new unverified password account.

Description: Hashes the password, signs a 24h verification token bound to
the email, requests delivery, and persists the user. If the verification
email cannot be delivered the whole registration fails — a user whose
verification email silently never arrives must not exist.

Parameters:
  - context: context.Context
  - emailAddress: string
  - password: string

Returns:
  - *PublicUser: Sanitized created account
  - error: apperr.DuplicateEmail, delivery failures, or storage errors
*/
func (service *Service) Register(context context.Context, emailAddress, password string) (*PublicUser, error) {

	// Cheap duplicate pre-check; the unique index is the real arbiter
	// under concurrent registration.
	if _, err := service.users.FindByEmail(context, emailAddress); err == nil {
		return nil, apperr.DuplicateEmail()
	}

	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Sign the verification token bound to the email
	verificationToken, err := service.codec.Sign(sec.Claims{Email: emailAddress}, VerificationTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	// Request delivery before persisting. A send failure fails the whole
	// registration, and nothing has been written yet.
	if err := service.mailer.SendVerificationEmail(context, emailAddress, verificationToken); err != nil {
		return nil, err
	}

	user := &User{
		AccountInfo: AccountInfo{
			Email:             emailAddress,
			PasswordHash:      hashedPassword,
			EmailVerified:     false,
			VerificationDueBy: pointer.To(time.Now().UTC().Add(VerificationTokenTTL)),
			OauthProvider:     ProviderNone,
		},
		IdentityInfo: IdentityInfo{ProfilePic: DefaultProfilePic},
		Role:         sec.RoleUser,
		Rounds:       []round.Round{},
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	return Sanitize(user), nil
}

/*
VerifyEmail confirms ownership of an email address via a signed token.

Description: Idempotent — re-verification with a fresh valid token succeeds
without double side effects. Token failures surface the sec sentinel errors
so the HTTP layer can choose a redirect reason distinct from an absent user.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: sec.ErrTokenExpired / sec.ErrTokenMalformed, apperr.NotFound,
    or storage failures
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	claims, err := service.codec.Verify(token)
	if err != nil {
		return err
	}

	user, err := service.users.FindByEmail(context, claims.Email)
	if err != nil {
		return err
	}

	// Replaying a token after verification already happened is a no-op.
	if user.AccountInfo.EmailVerified {
		return nil
	}

	return service.users.MarkEmailVerified(context, user.ID.Hex())
}

/*
ResendVerificationEmail re-issues the verification token for an unverified
account.

Description: Signs a fresh token, resets the 24h due-by window, and resends.
Delivery failure propagates.

Parameters:
  - context: context.Context
  - emailAddress: string

Returns:
  - error: apperr.NotFound, apperr.Conflict for a verified account,
    delivery failures, or storage errors
*/
func (service *Service) ResendVerificationEmail(context context.Context, emailAddress string) error {
	user, err := service.users.FindByEmail(context, emailAddress)
	if err != nil {
		return err
	}

	if user.AccountInfo.EmailVerified {
		return apperr.Conflict("Email is already verified")
	}

	verificationToken, err := service.codec.Sign(sec.Claims{Email: emailAddress}, VerificationTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	if err := service.mailer.SendVerificationEmail(context, emailAddress, verificationToken); err != nil {
		return err
	}

	dueBy := time.Now().UTC().Add(VerificationTokenTTL)
	return service.users.RenewVerificationWindow(context, user.ID.Hex(), dueBy)
}

// # Authentication Flow

// LoginResult bundles the sanitized user and the freshly minted session.
type LoginResult struct {
	User      *PublicUser
	Artifacts *SessionArtifacts
}

/*
Login validates credentials and establishes a session.

Description: A missing user, an unverified email, and a third-party account
all fail in the same not-found status class with distinct messages, so a
scripted client cannot tell which case applied beyond the documented status
code. A failed hash comparison is the only 400-class credential failure.

Parameters:
  - context: context.Context
  - emailAddress: string
  - password: string

Returns:
  - *LoginResult: Sanitized user + session artifacts
  - error: Not-found-class, apperr.InvalidCredential, or issuance failures
*/
func (service *Service) Login(context context.Context, emailAddress, password string) (*LoginResult, error) {
	user, err := service.users.FindByEmail(context, emailAddress)
	if err != nil {
		return nil, apperr.NotFoundMsg("User not found")
	}

	if !user.AccountInfo.EmailVerified {
		return nil, apperr.NotFoundMsg("Email has not been verified")
	}

	if !user.HasPassword() {
		return nil, apperr.NotFoundMsg("Account uses third-party sign-in")
	}

	// Constant-time comparison inside bcrypt.
	if !sec.CheckPasswordHash(password, user.AccountInfo.PasswordHash) {
		return nil, apperr.InvalidCredential("Invalid password")
	}

	artifacts, err := service.issuer.IssueSession(context, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: Sanitize(user), Artifacts: artifacts}, nil
}

/*
Refresh mints a new access token and anti-CSRF token from a refresh token.

Description: The refresh token's embedded subject must match the claimed
user ID. The refresh token itself is not rotated; when it expires the user
re-authenticates.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string

Returns:
  - *SessionArtifacts: New access + anti-CSRF artifacts
  - error: apperr.Unauthorized or issuance failures
*/
func (service *Service) Refresh(context context.Context, userID, refreshToken string) (*SessionArtifacts, error) {
	claims, err := service.codec.Verify(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if claims.UserID != userID {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	return service.issuer.RotateAccess(context, user.ID.Hex(), user.Role)
}

/*
Logout destroys the server-side session state.

Description: Best-effort from the caller's perspective — a teardown failure
is logged but never surfaces, so a client is never blocked from logging out
locally by server-side bookkeeping.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Always nil
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.sessions.Delete(context, userID); err != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "session_teardown_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// # Password Recovery

/*
RequestPasswordReset opens the two-stage reset flow.

Description: Generates a 6-digit code, signs it into a short-lived token
stored on the user record, and emails the code. Overwrites any earlier
in-flight reset; only the newest code can complete.

Parameters:
  - context: context.Context
  - emailAddress: string

Returns:
  - error: apperr.NotFound, delivery failures, or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, emailAddress string) error {
	user, err := service.users.FindByEmail(context, emailAddress)
	if err != nil {
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("auth_service_reset_code_failed: %w", err)
	}

	resetToken, err := service.codec.Sign(sec.Claims{Email: emailAddress, ResetCode: code}, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	if err := service.users.SetResetToken(context, user.ID.Hex(), resetToken); err != nil {
		return err
	}

	return service.mailer.SendPasswordResetEmail(context, emailAddress, code)
}

/*
VerifyPasswordReset matches a submitted code against the in-flight reset.

Description: Verifies the stored first-stage token's signature and expiry,
compares the embedded code, and on match signs the second-stage token that
the completion step trusts.

Parameters:
  - context: context.Context
  - emailAddress: string
  - code: string

Returns:
  - error: apperr.NotFound, apperr.Unauthorized (missing/expired stage),
    apperr.InvalidCredential (wrong code), or storage errors
*/
func (service *Service) VerifyPasswordReset(context context.Context, emailAddress, code string) error {
	user, err := service.users.FindByEmail(context, emailAddress)
	if err != nil {
		return err
	}

	if user.AccountInfo.PassResetToken == "" {
		return apperr.Unauthorized("No password reset in progress")
	}

	claims, err := service.codec.Verify(user.AccountInfo.PassResetToken)
	if err != nil {
		return apperr.Unauthorized("Password reset request is invalid or expired")
	}

	if claims.ResetCode != code {
		return apperr.InvalidCredential("Invalid reset code")
	}

	verifiedToken, err := service.codec.Sign(sec.Claims{Email: emailAddress}, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth_service_reset_verified_token_failed: %w", err)
	}

	return service.users.SetResetVerifiedToken(context, user.ID.Hex(), verifiedToken)
}

/*
CompletePasswordReset installs a new password after the code stage passed.

Description: Trusts only the second-stage verified token. On success the new
hash replaces the old and both reset tokens are cleared, closing the flow.

Parameters:
  - context: context.Context
  - emailAddress: string
  - newPassword: string

Returns:
  - error: apperr.NotFound, apperr.Unauthorized (unverified/expired stage),
    or storage errors
*/
func (service *Service) CompletePasswordReset(context context.Context, emailAddress, newPassword string) error {
	user, err := service.users.FindByEmail(context, emailAddress)
	if err != nil {
		return err
	}

	if user.AccountInfo.PassResetVerifiedToken == "" {
		return apperr.Unauthorized("Password reset has not been verified")
	}

	if _, err := service.codec.Verify(user.AccountInfo.PassResetVerifiedToken); err != nil {
		return apperr.Unauthorized("Password reset session is invalid or expired")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_hash_failed: %w", err)
	}

	return service.users.CompletePasswordReset(context, user.ID.Hex(), hashedPassword)
}

// generateResetCode draws a uniform 6-digit numeric code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
