// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
	requestutil "github.com/fairwaylabs/fairway/internal/platform/request"
	"github.com/fairwaylabs/fairway/internal/platform/respond"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the authentication HTTP surface.
//
// # Scope
//
// Everything under /auth: account creation, email verification, login and
// session lifecycle, the two-stage password reset, the MFA protocol, and
// the GitHub OAuth flow.
type Handler struct {
	authService   *Service
	issuer        *Issuer
	gate          *Gate
	github        *GithubProvider
	codec         *sec.TokenCodec
	clientBaseURL string
}

// NewHandler constructs the auth [Handler] with its dependencies.
func NewHandler(service *Service, issuer *Issuer, gate *Gate, github *GithubProvider, codec *sec.TokenCodec, clientBaseURL string) *Handler {
	return &Handler{
		authService:   service,
		issuer:        issuer,
		gate:          gate,
		github:        github,
		codec:         codec,
		clientBaseURL: clientBaseURL,
	}
}

// Routes returns a [chi.Router] with the authentication endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Get("/verify-email/{token}", handler.verifyEmail)
	router.Post("/resend-verification-email", handler.resendVerificationEmail)
	router.Post("/login", handler.login)
	router.Delete("/logout/{userId}", handler.logout)
	router.Post("/refresh-token/{userId}", handler.refreshToken)
	router.Post("/reset-password/request", handler.requestPasswordReset)
	router.Post("/reset-password/verify", handler.verifyPasswordReset)
	router.Post("/reset-password/complete", handler.completePasswordReset)
	router.Get("/github", handler.githubAuthorize)
	router.Get("/github/callback", handler.githubCallback)

	// Gated endpoints: authenticated, ownership-checked, CSRF-protected
	router.Group(func(r chi.Router) {
		r.Use(handler.gate.Authenticate, handler.gate.Authorize, handler.gate.CSRF)
		r.Get("/anti-csrf-token/{userId}", handler.antiCsrfToken)
		r.Post("/mfa/enable/{userId}", handler.enableMfa)
		r.Post("/mfa/start-verify/{userId}", handler.startVerifyMfa)
		r.Post("/mfa/verify/{userId}", handler.verifyMfa)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyResetRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type completeResetRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

type mfaVerifyRequest struct {
	Code string `json:"code"`
}

/*
Register creates a new unverified account.

POST /auth/register

Request:
  - Body: registerRequest (Email, Password)

Response:
  - 201: PublicUser: Created account, secrets stripped
  - 400: ValidationError / DuplicateEmail
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
VerifyEmail confirms email ownership from the emailed link.

GET /auth/verify-email/{token}

Description: Always answers with a 302 to the client app. The query string
tells the client whether verification succeeded and, on failure, whether the
token was at fault (invalidtoken) or something else went wrong (other). The
email is echoed back when it can be read from the token, so the client can
pre-fill a resend form.
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")

	err := handler.authService.VerifyEmail(request.Context(), token)

	query := url.Values{}
	if err == nil {
		query.Set("emailverified", "true")
		if claims := handler.codec.DecodeUnverified(token); claims != nil {
			query.Set(FieldEmail, claims.Email)
		}
	} else {
		query.Set("emailverified", "false")
		if errors.Is(err, sec.ErrTokenExpired) || errors.Is(err, sec.ErrTokenMalformed) {
			query.Set("reason", "invalidtoken")
		} else {
			query.Set("reason", "other")
		}
		// The signature may be bad but the payload can still carry a
		// readable address for the client's resend form.
		if claims := handler.codec.DecodeUnverified(token); claims != nil {
			query.Set(FieldEmail, claims.Email)
		}
	}

	http.Redirect(writer, request, handler.clientBaseURL+"?"+query.Encode(), http.StatusFound)
}

/*
ResendVerificationEmail re-issues the verification email.

POST /auth/resend-verification-email

Response:
  - 200: Success message
  - 404: Unknown email
  - 409: Already verified
*/
func (handler *Handler) resendVerificationEmail(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendVerificationEmail(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Verification email sent",
	})
}

/*
Login authenticates a user and establishes a session.

POST /auth/login

Response:
  - 200: user + token expiries + anti-CSRF token, with accessToken and
    refreshToken set as http-only cookies
  - 400: InvalidCredential: Wrong password
  - 404: Not-found class: unknown, unverified, or third-party account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issuer.SetAuthCookies(writer, result.Artifacts)

	respond.OK(writer, map[string]any{
		"user":               result.User,
		"accessTokenExpiry":  result.Artifacts.AccessTokenExpiry,
		"refreshTokenExpiry": result.Artifacts.RefreshTokenExpiry,
		"antiCsrfToken":      result.Artifacts.AntiCsrfToken,
	})
}

/*
Logout tears down the session.

DELETE /auth/logout/{userId}

Description: Always answers 200 — server-side teardown failures are logged,
never surfaced. The auth cookies are cleared unconditionally.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	_ = handler.authService.Logout(request.Context(), userID)

	handler.issuer.ClearAuthCookies(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out",
	})
}

/*
RefreshToken mints a new access token from the refresh token cookie.

POST /auth/refresh-token/{userId}

Response:
  - 200: accessTokenExpiry + rotated anti-CSRF token, new accessToken cookie
  - 401: Missing, expired, or wrong-subject refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	refreshToken := requestutil.Cookie(request, constants.RefreshTokenCookieName)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	artifacts, err := handler.authService.Refresh(request.Context(), userID, refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issuer.SetAccessCookie(writer, artifacts)

	respond.OK(writer, map[string]any{
		"accessTokenExpiry": artifacts.AccessTokenExpiry,
		"antiCsrfToken":     artifacts.AntiCsrfToken,
	})
}

// # Password Reset

/*
RequestPasswordReset emails a 6-digit reset code.

POST /auth/reset-password/request

Response:
  - 200: Code sent
  - 404: Unknown email
*/
func (handler *Handler) requestPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password reset code sent",
	})
}

/*
VerifyPasswordReset matches the emailed code.

POST /auth/reset-password/verify

Response:
  - 200: Code matched, completion unlocked
  - 400: Wrong code
  - 401: No reset in progress or request expired
  - 404: Unknown email
*/
func (handler *Handler) verifyPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input verifyResetRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldCode, input.Code).
		OTPCode(FieldCode, input.Code)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyPasswordReset(request.Context(), input.Email, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Reset code verified",
	})
}

/*
CompletePasswordReset installs the new password.

POST /auth/reset-password/complete

Response:
  - 200: Password replaced
  - 401: Code stage not passed or expired
  - 404: Unknown email
*/
func (handler *Handler) completePasswordReset(writer http.ResponseWriter, request *http.Request) {
	var input completeResetRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.CompletePasswordReset(request.Context(), input.Email, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password updated",
	})
}

// # MFA

/*
EnableMfa begins authenticator enrollment.

POST /auth/mfa/enable/{userId}

Response:
  - 200: Raw secret, otpauth URL, and QR code data URL (returned exactly once)
  - 400: Already enabled
  - 404: Unknown user
*/
func (handler *Handler) enableMfa(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	enrollment, err := handler.authService.EnableMFA(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, enrollment)
}

/*
StartVerifyMfa opens a 10-minute verification window.

POST /auth/mfa/start-verify/{userId}

Response:
  - 200: Window open, attempt counter reset
  - 400: Nothing enrolled
  - 404: Unknown user
*/
func (handler *Handler) startVerifyMfa(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	if err := handler.authService.StartVerifyMFA(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "MFA verification started",
	})
}

/*
VerifyMfa checks a submitted authenticator code.

POST /auth/mfa/verify/{userId}

Response:
  - 200: Possession proven, MFA enabled
  - 401: Expired window, attempt budget spent, or wrong code
  - 404: Unknown user
*/
func (handler *Handler) verifyMfa(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	var input mfaVerifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCode, input.Code).OTPCode(FieldCode, input.Code)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyMFA(request.Context(), userID, input.Code); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "MFA verified",
	})
}

/*
AntiCsrfToken returns the anti-CSRF token bound to the caller's session.

GET /auth/anti-csrf-token/{userId}

Response:
  - 200: Current anti-CSRF token
  - 401: No active session
*/
func (handler *Handler) antiCsrfToken(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, FieldUserID)

	state, err := handler.authService.sessions.Find(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"antiCsrfToken": state.AntiCsrfToken,
	})
}

// # OAuth

/*
GithubAuthorize starts the GitHub OAuth flow.

GET /auth/github

Description: Issues a random state token in an http-only cookie and
redirects to GitHub's authorization page carrying the same state.
*/
func (handler *Handler) githubAuthorize(writer http.ResponseWriter, request *http.Request) {
	state, err := sec.GenerateSecureToken(OauthStateLength)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   handler.issuer.cookies.Production,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(writer, request, handler.github.AuthorizeURL(state), http.StatusFound)
}

/*
GithubCallback completes the GitHub OAuth flow.

GET /auth/github/callback

Description: Rejects the callback unless the returned state matches the one
issued in the cookie — a mismatch means the flow was forged. On success the
profile email is resolved, the account linked or created, session cookies
set, and the client redirected to the app.
*/
func (handler *Handler) githubCallback(writer http.ResponseWriter, request *http.Request) {
	stateCookie := requestutil.Cookie(request, constants.OauthStateCookieName)
	returnedState := request.URL.Query().Get("state")

	if stateCookie == "" || returnedState == "" || stateCookie != returnedState {
		respond.Error(writer, request, apperr.Forbidden("Invalid OAuth state"))
		return
	}

	// One-shot state: clear the cookie whatever happens next.
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := request.URL.Query().Get("code")
	if code == "" {
		respond.Error(writer, request, apperr.ValidationError("Missing authorization code"))
		return
	}

	accessToken, err := handler.github.Exchange(request.Context(), code)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("OAuth exchange failed"))
		return
	}

	emailAddress, err := handler.github.ResolveEmail(request.Context(), accessToken)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Could not resolve account email"))
		return
	}

	result, err := handler.authService.OauthLogin(request.Context(), emailAddress, ProviderGithub)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issuer.SetAuthCookies(writer, result.Artifacts)
	http.Redirect(writer, request, handler.clientBaseURL, http.StatusFound)
}
