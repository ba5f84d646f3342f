// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
)

// # Session Issuance

// SessionArtifacts is everything minted for a freshly authenticated user.
type SessionArtifacts struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
	AntiCsrfToken      string
}

// CookiePolicy controls how auth cookies are scoped.
//
// Production cookies are Secure and SameSite=None so browser clients on the
// app origin can carry them cross-site; development keeps Lax over plain
// HTTP.
type CookiePolicy struct {
	Domain     string
	Production bool
}

// TokenPolicy carries the externally configured token lifetimes. Zero
// values fall back to the package defaults.
type TokenPolicy struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (policy TokenPolicy) withDefaults() TokenPolicy {
	if policy.AccessTTL <= 0 {
		policy.AccessTTL = AccessTokenTTL
	}
	if policy.RefreshTTL <= 0 {
		policy.RefreshTTL = RefreshTokenTTL
	}
	return policy
}

// Issuer mints the paired access/refresh tokens plus the per-session
// anti-CSRF token, and persists the server-side session state.
type Issuer struct {
	codec    *sec.TokenCodec
	sessions SessionStore
	cookies  CookiePolicy
	tokens   TokenPolicy
}

// NewIssuer constructs a session issuer.
func NewIssuer(codec *sec.TokenCodec, sessions SessionStore, cookies CookiePolicy, tokens TokenPolicy) *Issuer {
	return &Issuer{codec: codec, sessions: sessions, cookies: cookies, tokens: tokens.withDefaults()}
}

/*
IssueSession mints a full set of session artifacts for a user and persists
the session state.

Description: Called on login success and OAuth callback success. The session
record carries the role and anti-CSRF token; its TTL matches the refresh
token so the session dies with the last credential that could renew it.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - *SessionArtifacts: Transport-ready token set
  - error: Signing or session storage failures
*/
func (issuer *Issuer) IssueSession(context context.Context, userID string, role sec.Role) (*SessionArtifacts, error) {
	now := time.Now().UTC()

	accessToken, err := issuer.codec.Sign(sec.Claims{UserID: userID}, issuer.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_issue_access_token_failed: %w", err)
	}

	refreshToken, err := issuer.codec.Sign(sec.Claims{UserID: userID}, issuer.tokens.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_issue_refresh_token_failed: %w", err)
	}

	antiCsrf, err := sec.GenerateSecureToken(AntiCsrfTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_issue_anti_csrf_failed: %w", err)
	}

	state := SessionState{UserID: userID, Role: role, AntiCsrfToken: antiCsrf}
	if err := issuer.sessions.Save(context, state, issuer.tokens.RefreshTTL); err != nil {
		return nil, err
	}

	return &SessionArtifacts{
		AccessToken:        accessToken,
		AccessTokenExpiry:  now.Add(issuer.tokens.AccessTTL),
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: now.Add(issuer.tokens.RefreshTTL),
		AntiCsrfToken:      antiCsrf,
	}, nil
}

/*
RotateAccess mints a new access token and anti-CSRF token for a user whose
refresh token has already been verified.

Description: Rotation of the anti-CSRF token on every refresh bounds the
blast radius of a leaked value. The refresh token itself is left untouched;
an expired refresh token always forces re-login.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role

Returns:
  - *SessionArtifacts: RefreshToken fields left empty
  - error: Signing or session storage failures
*/
func (issuer *Issuer) RotateAccess(context context.Context, userID string, role sec.Role) (*SessionArtifacts, error) {
	now := time.Now().UTC()

	accessToken, err := issuer.codec.Sign(sec.Claims{UserID: userID}, issuer.tokens.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_rotate_access_token_failed: %w", err)
	}

	antiCsrf, err := sec.GenerateSecureToken(AntiCsrfTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_rotate_anti_csrf_failed: %w", err)
	}

	state := SessionState{UserID: userID, Role: role, AntiCsrfToken: antiCsrf}
	if err := issuer.sessions.Save(context, state, issuer.tokens.RefreshTTL); err != nil {
		return nil, err
	}

	return &SessionArtifacts{
		AccessToken:       accessToken,
		AccessTokenExpiry: now.Add(issuer.tokens.AccessTTL),
		AntiCsrfToken:     antiCsrf,
	}, nil
}

// # Cookie Handling

// SetAccessCookie writes the access token cookie.
func (issuer *Issuer) SetAccessCookie(writer http.ResponseWriter, artifacts *SessionArtifacts) {
	http.SetCookie(writer, issuer.cookie(constants.AccessTokenCookieName, artifacts.AccessToken, artifacts.AccessTokenExpiry))
}

// SetAuthCookies writes both the access and refresh token cookies.
func (issuer *Issuer) SetAuthCookies(writer http.ResponseWriter, artifacts *SessionArtifacts) {
	issuer.SetAccessCookie(writer, artifacts)
	http.SetCookie(writer, issuer.cookie(constants.RefreshTokenCookieName, artifacts.RefreshToken, artifacts.RefreshTokenExpiry))
}

// ClearAuthCookies expires both auth cookies on the client.
func (issuer *Issuer) ClearAuthCookies(writer http.ResponseWriter) {
	expired := time.Unix(0, 0)
	http.SetCookie(writer, issuer.cookie(constants.AccessTokenCookieName, "", expired))
	http.SetCookie(writer, issuer.cookie(constants.RefreshTokenCookieName, "", expired))
}

// cookie builds an http-only cookie under the configured policy.
func (issuer *Issuer) cookie(name, value string, expires time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if issuer.cookies.Production {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   issuer.cookies.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   issuer.cookies.Production,
		SameSite: sameSite,
	}
}
