// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/ctxutil"
	"github.com/fairwaylabs/fairway/internal/platform/respond"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
)

// Gate is the per-request authentication, authorization, and anti-CSRF
// checkpoint for protected routes.
//
// It is an explicit dependency-injected object constructed once at startup —
// no global registry state. Rate limiting is not here; it applies globally
// in the platform middleware chain, before authentication.
type Gate struct {
	codec    *sec.TokenCodec
	sessions SessionStore
	users    UserRepository
	issuer   *Issuer
}

// NewGate constructs the request gate.
func NewGate(codec *sec.TokenCodec, sessions SessionStore, users UserRepository, issuer *Issuer) *Gate {
	return &Gate{codec: codec, sessions: sessions, users: users, issuer: issuer}
}

/*
Authenticate validates the access token cookie and attaches the principal.

Description: A missing cookie is a hard 401. An expired or malformed access
token triggers one silent refresh attempt: if the refresh token cookie
verifies, a new access token and anti-CSRF token are minted, the session is
updated, the new cookie is set, and the request continues. If the refresh
token is also missing or expired the caller must re-authenticate — the
expired refresh token always forces re-login.
*/
func (gate *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		accessCookie, err := request.Cookie(constants.AccessTokenCookieName)
		if err != nil || accessCookie.Value == "" {
			respond.Error(writer, request, apperr.Unauthorized("Missing access token"))
			return
		}

		claims, err := gate.codec.Verify(accessCookie.Value)
		if err == nil {
			gate.continueAuthenticated(writer, request, next, claims.UserID)
			return
		}

		// Attempt a silent refresh only when the access token genuinely
		// failed verification, not on other errors.
		if !errors.Is(err, sec.ErrTokenExpired) && !errors.Is(err, sec.ErrTokenMalformed) {
			respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
			return
		}

		refreshCookie, refreshErr := request.Cookie(constants.RefreshTokenCookieName)
		if refreshErr != nil || refreshCookie.Value == "" {
			respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
			return
		}

		refreshClaims, refreshErr := gate.codec.Verify(refreshCookie.Value)
		if refreshErr != nil {
			respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
			return
		}

		user, userErr := gate.users.FindByID(request.Context(), refreshClaims.UserID)
		if userErr != nil {
			respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
			return
		}

		// The client built this request before the rotation below, so the
		// only anti-CSRF token it could have sent is the pre-rotation one.
		// Remember it so the CSRF check does not reject the in-flight
		// request.
		var priorAntiCsrf string
		if state, stateErr := gate.sessions.Find(request.Context(), user.ID.Hex()); stateErr == nil {
			priorAntiCsrf = state.AntiCsrfToken
		}

		artifacts, issueErr := gate.issuer.RotateAccess(request.Context(), user.ID.Hex(), user.Role)
		if issueErr != nil {
			respond.Error(writer, request, issueErr)
			return
		}

		gate.issuer.SetAccessCookie(writer, artifacts)

		// Hand the rotated token back on this response; the next
		// state-changing request must carry it.
		writer.Header().Set(constants.AntiCsrfHeader, artifacts.AntiCsrfToken)

		request = request.WithContext(context.WithValue(request.Context(), csrfGraceKey{}, priorAntiCsrf))
		gate.continueAuthenticated(writer, request, next, user.ID.Hex())
	})
}

// csrfGraceKey carries the anti-CSRF token that was current before a silent
// refresh rotated it mid-request.
type csrfGraceKey struct{}

// continueAuthenticated resolves the session, attaches the principal, and
// passes control downstream.
func (gate *Gate) continueAuthenticated(writer http.ResponseWriter, request *http.Request, next http.Handler, userID string) {
	state, err := gate.sessions.Find(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("No active session"))
		return
	}

	principal := &sec.Principal{UserID: state.UserID, Role: state.Role}
	ctx := ctxutil.WithPrincipal(request.Context(), principal)
	next.ServeHTTP(writer, request.WithContext(ctx))
}

/*
Authorize enforces the role-and-ownership rule.

Description: Admins pass every check. A regular user passes only when the
route's userId path parameter equals their own ID. Everything else fails
closed.
*/
func (gate *Gate) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		if principal.IsAdmin() {
			next.ServeHTTP(writer, request)
			return
		}

		targetID := chi.URLParam(request, FieldUserID)
		if targetID == "" || targetID != principal.UserID {
			respond.Error(writer, request, apperr.Unauthorized("Not authorized for this resource"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

/*
CSRF rejects state-changing requests whose anti-CSRF header does not match
the value bound to the server-side session.

Description: Applies to every non-GET method on authenticated routes. Safe
methods pass untouched.
*/
func (gate *Gate) CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(writer, request)
			return
		}

		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		state, err := gate.sessions.Find(request.Context(), principal.UserID)
		if err != nil {
			respond.Error(writer, request, apperr.Forbidden("Invalid anti-CSRF token"))
			return
		}

		// A silent refresh earlier in the chain rotated the session token
		// after the client had already sent its header; the pre-rotation
		// token stays valid for that one request.
		grace, _ := request.Context().Value(csrfGraceKey{}).(string)

		submitted := request.Header.Get(constants.AntiCsrfHeader)
		if submitted == "" || (submitted != state.AntiCsrfToken && submitted != grace) {
			respond.Error(writer, request, apperr.Forbidden("Invalid anti-CSRF token"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
