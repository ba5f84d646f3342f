// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/ctxutil"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
)

// MfaEnrollment is returned once, at enrollment time. The raw secret is
// never retrievable again.
type MfaEnrollment struct {
	Secret        string `json:"secret"`
	OtpauthURL    string `json:"otpauthUrl"`
	QRCodeDataURL string `json:"qrCodeDataUrl"`
}

/*
EnableMFA begins authenticator enrollment for an account.

Description: Generates a fresh TOTP secret, encrypts it at rest, and stores
it with verification pending. The raw secret and a QR code are returned
exactly once for manual entry / scanning.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *MfaEnrollment: Raw secret + QR code data URL
  - error: apperr.NotFound, validation failure when already enabled,
    or storage errors
*/
func (service *Service) EnableMFA(context context.Context, userID string) (*MfaEnrollment, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if user.AccountInfo.MfaVerified {
		return nil, apperr.ValidationError("MFA is already enabled")
	}

	enrollment, err := sec.GenerateOTPEnrollment(constants.AuthIssuer, user.AccountInfo.Email)
	if err != nil {
		return nil, err
	}

	encryptedSecret, err := service.secretBox.Encrypt(enrollment.Secret)
	if err != nil {
		return nil, err
	}

	if err := service.users.EnrollMfaSecret(context, userID, encryptedSecret); err != nil {
		return nil, err
	}

	return &MfaEnrollment{
		Secret:        enrollment.Secret,
		OtpauthURL:    enrollment.URI,
		QRCodeDataURL: enrollment.QRCode,
	}, nil
}

/*
StartVerifyMFA opens a verification window for an enrolled account.

Description: The only way a window opens. Resets the attempt counter and
stamps the window start; submissions outside an open window always fail.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound, validation failure when nothing is enrolled,
    or storage errors
*/
func (service *Service) StartVerifyMFA(context context.Context, userID string) error {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if user.AccountInfo.MfaSecret == "" {
		return apperr.ValidationError("MFA is not enrolled")
	}

	return service.users.OpenMfaWindow(context, userID, time.Now().UTC())
}

/*
VerifyMFA checks a submitted code inside an open verification window.

Description: The window expires 10 minutes after StartVerifyMFA; an expired
or never-opened window reports identically. The 5-attempt budget is checked
before a new attempt is consumed, and the consuming increment is conditional
in the store so the bound holds under concurrent submissions. A corrupted
stored secret is logged but presented exactly like a wrong code — no oracle.

Parameters:
  - context: context.Context
  - userID: string
  - code: string

Returns:
  - error: apperr.NotFound, validation failure when nothing is enrolled,
    or apperr.Unauthorized (expired window / attempt budget / wrong code)
*/
func (service *Service) VerifyMFA(context context.Context, userID, code string) error {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	account := user.AccountInfo
	if account.MfaSecret == "" {
		return apperr.ValidationError("MFA is not enrolled")
	}

	// A closed window and an expired window report identically.
	if account.MfaStartTime == nil || time.Since(*account.MfaStartTime) > MfaWindow {
		return apperr.Unauthorized("MFA session has expired")
	}

	// Budget check happens before this call consumes an attempt: the call
	// after the limit always fails, even with a correct code.
	if account.MfaAttempts >= MaxMfaAttempts {
		return apperr.Unauthorized("Too many failed attempts")
	}

	secret, decryptErr := service.secretBox.Decrypt(account.MfaSecret)
	codeValid := decryptErr == nil && sec.VerifyOTPCode(code, secret)

	if decryptErr != nil {
		ctxutil.GetLogger(context).ErrorContext(context, "mfa_secret_decrypt_failed",
			slog.String("user_id", userID),
			slog.String("error", decryptErr.Error()),
		)
	}

	if !codeValid {
		if _, err := service.users.ConsumeMfaAttempt(context, userID); err != nil {
			if errors.Is(err, ErrMfaAttemptsExhausted) {
				return apperr.Unauthorized("Too many failed attempts")
			}
			return err
		}
		return apperr.Unauthorized("Invalid MFA code")
	}

	return service.users.CompleteMfaVerification(context, userID)
}
