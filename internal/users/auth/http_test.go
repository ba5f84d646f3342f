// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/fairway/internal/platform/constants"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
	"github.com/fairwaylabs/fairway/internal/users/auth"
)

const testClientURL = "http://client.test"

// newAuthServer mounts the full auth router on an httptest server.
func newAuthServer(t *testing.T) (*testEnv, *httptest.Server) {
	t.Helper()

	env := newTestEnv(t)
	gate := auth.NewGate(env.codec, env.sessions, env.users, env.issuer)
	github := auth.NewGithubProvider("client-id", "client-secret", "http://api.test/auth/github/callback")

	handler := auth.NewHandler(env.service, env.issuer, gate, github, env.codec, testClientURL)
	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)

	return env, server
}

// noRedirectClient returns a client that surfaces 3xx responses untouched.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, client *http.Client, url, body string) *http.Response {
	t.Helper()
	response, err := client.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return response
}

func decodeData(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	return envelope.Data
}

// # Registration & Verification

func TestHTTPRegister(t *testing.T) {
	_, server := newAuthServer(t)
	client := server.Client()

	response := postJSON(t, client, server.URL+"/register",
		`{"email":"golfer@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)

	data := decodeData(t, response)
	accountInfo, ok := data["accountInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "golfer@example.com", accountInfo["email"])
	assert.Equal(t, false, accountInfo["emailVerified"])

	// The credential fields never appear in the payload.
	_, leaked := accountInfo["password"]
	assert.False(t, leaked)
}

func TestHTTPRegister_Validation(t *testing.T) {
	_, server := newAuthServer(t)
	client := server.Client()

	tests := []struct {
		name string
		body string
	}{
		{"malformed_json", `{`},
		{"missing_email", `{"password":"s3cretpass"}`},
		{"bad_email", `{"email":"nope","password":"s3cretpass"}`},
		{"short_password", `{"email":"golfer@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := postJSON(t, client, server.URL+"/register", tt.body)
			defer response.Body.Close()
			assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		})
	}
}

func TestHTTPVerifyEmail_Redirects(t *testing.T) {
	env, server := newAuthServer(t)
	client := noRedirectClient()

	// A registered account to verify.
	response := postJSON(t, server.Client(), server.URL+"/register",
		`{"email":"golfer@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response.Body.Close()
	validToken := env.mailer.lastVerificationToken()

	expiredToken, err := env.codec.Sign(sec.Claims{Email: "golfer@example.com"}, -time.Minute)
	require.NoError(t, err)

	unknownToken, err := env.codec.Sign(sec.Claims{Email: "ghost@example.com"}, auth.VerificationTokenTTL)
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		wantVerified string
		wantReason   string
		wantEmail    string
	}{
		{"valid_token", validToken, "true", "", "golfer@example.com"},
		{"expired_token", expiredToken, "false", "invalidtoken", "golfer@example.com"},
		{"garbage_token", "garbage", "false", "invalidtoken", ""},
		{"unknown_account", unknownToken, "false", "other", "ghost@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(server.URL + "/verify-email/" + tt.token)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusFound, resp.StatusCode)

			location, err := url.Parse(resp.Header.Get("Location"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(location.String(), testClientURL))

			query := location.Query()
			assert.Equal(t, tt.wantVerified, query.Get("emailverified"))
			assert.Equal(t, tt.wantReason, query.Get("reason"))
			assert.Equal(t, tt.wantEmail, query.Get("email"))
		})
	}
}

// # Login / Logout / Refresh

func TestHTTPLogin(t *testing.T) {
	env, server := newAuthServer(t)
	seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	response := postJSON(t, server.Client(), server.URL+"/login",
		`{"email":"golfer@example.com","password":"s3cretpass"}`)
	require.Equal(t, http.StatusOK, response.StatusCode)

	// Both auth cookies arrive http-only.
	cookies := map[string]*http.Cookie{}
	for _, cookie := range response.Cookies() {
		cookies[cookie.Name] = cookie
	}
	require.Contains(t, cookies, constants.AccessTokenCookieName)
	require.Contains(t, cookies, constants.RefreshTokenCookieName)
	assert.True(t, cookies[constants.AccessTokenCookieName].HttpOnly)
	assert.True(t, cookies[constants.RefreshTokenCookieName].HttpOnly)

	data := decodeData(t, response)
	assert.NotEmpty(t, data["antiCsrfToken"])
	assert.NotEmpty(t, data["accessTokenExpiry"])
	assert.NotEmpty(t, data["refreshTokenExpiry"])
	require.Contains(t, data, "user")
}

func TestHTTPLogin_WrongPassword(t *testing.T) {
	env, server := newAuthServer(t)
	seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	response := postJSON(t, server.Client(), server.URL+"/login",
		`{"email":"golfer@example.com","password":"wrong"}`)
	defer response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	assert.Empty(t, response.Cookies())
}

func TestHTTPLogout_AlwaysOK(t *testing.T) {
	env, server := newAuthServer(t)
	user := seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	request, err := http.NewRequest(http.MethodDelete, server.URL+"/logout/"+user.ID.Hex(), nil)
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	// 200 even though no session existed, and the cookies are expired.
	assert.Equal(t, http.StatusOK, response.StatusCode)
	for _, cookie := range response.Cookies() {
		assert.True(t, cookie.Expires.Before(time.Now()))
		assert.Empty(t, cookie.Value)
	}
}

func TestHTTPRefreshToken(t *testing.T) {
	env, server := newAuthServer(t)
	user := seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	login, err := env.service.Login(context.Background(), "golfer@example.com", "s3cretpass")
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, server.URL+"/refresh-token/"+user.ID.Hex(), nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: login.Artifacts.RefreshToken})

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)

	data := decodeData(t, response)
	assert.NotEmpty(t, data["antiCsrfToken"])
	assert.NotEqual(t, login.Artifacts.AntiCsrfToken, data["antiCsrfToken"])
}

func TestHTTPRefreshToken_MissingCookie(t *testing.T) {
	env, server := newAuthServer(t)
	user := seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	request, err := http.NewRequest(http.MethodPost, server.URL+"/refresh-token/"+user.ID.Hex(), nil)
	require.NoError(t, err)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

// # Gated Endpoints

func TestHTTPAntiCsrfToken(t *testing.T) {
	env, server := newAuthServer(t)
	user := seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	login, err := env.service.Login(context.Background(), "golfer@example.com", "s3cretpass")
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodGet, server.URL+"/anti-csrf-token/"+user.ID.Hex(), nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: login.Artifacts.AccessToken})

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)

	data := decodeData(t, response)
	assert.Equal(t, login.Artifacts.AntiCsrfToken, data["antiCsrfToken"])
}

func TestHTTPMfaVerify_RequiresCsrfHeader(t *testing.T) {
	env, server := newAuthServer(t)
	user := seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")

	login, err := env.service.Login(context.Background(), "golfer@example.com", "s3cretpass")
	require.NoError(t, err)

	// POST without the anti-CSRF header is rejected before the handler.
	request, err := http.NewRequest(http.MethodPost, server.URL+"/mfa/enable/"+user.ID.Hex(), nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: login.Artifacts.AccessToken})

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusForbidden, response.StatusCode)

	// With the header, enrollment goes through.
	request, err = http.NewRequest(http.MethodPost, server.URL+"/mfa/enable/"+user.ID.Hex(), nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: login.Artifacts.AccessToken})
	request.Header.Set(constants.AntiCsrfHeader, login.Artifacts.AntiCsrfToken)

	response, err = server.Client().Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)

	data := decodeData(t, response)
	assert.NotEmpty(t, data["secret"])
	assert.NotEmpty(t, data["qrCodeDataUrl"])
}

func TestHTTPMfa_OwnershipEnforced(t *testing.T) {
	env, server := newAuthServer(t)
	seedVerifiedUser(t, env, "golfer@example.com", "s3cretpass")
	other := seedVerifiedUser(t, env, "other@example.com", "s3cretpass")

	login, err := env.service.Login(context.Background(), "golfer@example.com", "s3cretpass")
	require.NoError(t, err)

	// A user cannot run MFA operations against another account.
	request, err := http.NewRequest(http.MethodPost, server.URL+"/mfa/enable/"+other.ID.Hex(), nil)
	require.NoError(t, err)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: login.Artifacts.AccessToken})
	request.Header.Set(constants.AntiCsrfHeader, login.Artifacts.AntiCsrfToken)

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}
