// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// githubStub fakes the two GitHub endpoints the provider talks to.
type githubStub struct {
	accessToken  string
	profileEmail string
	emails       []map[string]any
	rejectCode   bool
}

func (stub *githubStub) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/login/oauth/access_token", func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		if stub.rejectCode {
			_ = json.NewEncoder(writer).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		assert.Equal(t, "client-id", request.PostForm.Get("client_id"))
		assert.NotEmpty(t, request.PostForm.Get("code"))
		_ = json.NewEncoder(writer).Encode(map[string]string{"access_token": stub.accessToken})
	})

	mux.HandleFunc("/user", func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer "+stub.accessToken, request.Header.Get("Authorization"))
		_ = json.NewEncoder(writer).Encode(map[string]any{"email": stub.profileEmail})
	})

	mux.HandleFunc("/user/emails", func(writer http.ResponseWriter, request *http.Request) {
		_ = json.NewEncoder(writer).Encode(stub.emails)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// stubbedProvider points a provider at the stub server.
func stubbedProvider(t *testing.T, stub *githubStub) *GithubProvider {
	t.Helper()

	server := stub.server(t)
	provider := NewGithubProvider("client-id", "client-secret", "http://api.test/auth/github/callback")
	provider.authorizeURL = server.URL + "/login/oauth/authorize"
	provider.tokenURL = server.URL + "/login/oauth/access_token"
	provider.apiBaseURL = server.URL
	return provider
}

func TestGithubProvider_AuthorizeURL(t *testing.T) {
	provider := NewGithubProvider("client-id", "client-secret", "http://api.test/auth/github/callback")

	raw := provider.AuthorizeURL("state-token")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, "https://github.com/login/oauth/authorize?"))
	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "http://api.test/auth/github/callback", query.Get("redirect_uri"))
	assert.Equal(t, "user:email", query.Get("scope"))
	assert.Equal(t, "state-token", query.Get("state"))
}

func TestGithubProvider_Exchange(t *testing.T) {
	provider := stubbedProvider(t, &githubStub{accessToken: "gho_testtoken"})

	token, err := provider.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_testtoken", token)
}

func TestGithubProvider_ExchangeRejected(t *testing.T) {
	provider := stubbedProvider(t, &githubStub{rejectCode: true})

	_, err := provider.Exchange(context.Background(), "stale-code")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth_exchange_rejected")
}

func TestGithubProvider_ResolveEmail_PublicProfile(t *testing.T) {
	provider := stubbedProvider(t, &githubStub{
		accessToken:  "gho_testtoken",
		profileEmail: "golfer@example.com",
	})

	email, err := provider.ResolveEmail(context.Background(), "gho_testtoken")
	require.NoError(t, err)
	assert.Equal(t, "golfer@example.com", email)
}

func TestGithubProvider_ResolveEmail_PrivateProfile(t *testing.T) {
	provider := stubbedProvider(t, &githubStub{
		accessToken: "gho_testtoken",
		emails: []map[string]any{
			{"email": "secondary@example.com", "primary": false, "verified": true},
			{"email": "unverified@example.com", "primary": true, "verified": false},
			{"email": "golfer@example.com", "primary": true, "verified": true},
		},
	})

	email, err := provider.ResolveEmail(context.Background(), "gho_testtoken")
	require.NoError(t, err)
	assert.Equal(t, "golfer@example.com", email)
}

func TestGithubProvider_ResolveEmail_NoUsableAddress(t *testing.T) {
	provider := stubbedProvider(t, &githubStub{
		accessToken: "gho_testtoken",
		emails: []map[string]any{
			{"email": "unverified@example.com", "primary": true, "verified": false},
		},
	})

	_, err := provider.ResolveEmail(context.Background(), "gho_testtoken")
	require.Error(t, err)
}
