// Copyright (c) 2026 Fairway. All rights reserved.
// Author: engineering@fairway.golf

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fairwaylabs/fairway/internal/platform/apperr"
	"github.com/fairwaylabs/fairway/internal/platform/sec"
)

// # GitHub Provider Adapter

// GithubProvider exchanges OAuth authorization codes with GitHub and
// resolves the profile email.
//
// It is constructed once at startup with client credentials and passed in
// explicitly — no global strategy registry.
type GithubProvider struct {
	clientID     string
	clientSecret string
	callbackURL  string

	// Overridable in tests.
	authorizeURL string
	tokenURL     string
	apiBaseURL   string

	httpClient *http.Client
}

// NewGithubProvider creates the GitHub OAuth adapter.
func NewGithubProvider(clientID, clientSecret, callbackURL string) *GithubProvider {
	return &GithubProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		callbackURL:  callbackURL,
		authorizeURL: "https://github.com/login/oauth/authorize",
		tokenURL:     "https://github.com/login/oauth/access_token",
		apiBaseURL:   "https://api.github.com",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the GitHub authorization redirect target carrying the
// anti-forgery state token.
func (provider *GithubProvider) AuthorizeURL(state string) string {
	query := url.Values{}
	query.Set("client_id", provider.clientID)
	query.Set("redirect_uri", provider.callbackURL)
	query.Set("scope", "user:email")
	query.Set("state", state)
	return provider.authorizeURL + "?" + query.Encode()
}

/*
Exchange swaps an authorization code for an access token.

Parameters:
  - context: context.Context
  - code: string

Returns:
  - string: Bearer access token
  - error: Exchange or decoding failures
*/
func (provider *GithubProvider) Exchange(context context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", provider.clientID)
	form.Set("client_secret", provider.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", provider.callbackURL)

	request, err := http.NewRequestWithContext(context, http.MethodPost, provider.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("oauth_exchange_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("oauth_exchange_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oauth_exchange_status: %d", response.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("oauth_exchange_decode_failed: %w", err)
	}
	if payload.Error != "" || payload.AccessToken == "" {
		return "", fmt.Errorf("oauth_exchange_rejected: %s", payload.Error)
	}

	return payload.AccessToken, nil
}

/*
ResolveEmail fetches the authenticated user's email address.

Description: Uses the profile email when public; otherwise falls back to the
primary verified address from the emails endpoint.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - string: Email address
  - error: API or decoding failures, or no usable address
*/
func (provider *GithubProvider) ResolveEmail(context context.Context, accessToken string) (string, error) {
	var profile struct {
		Email string `json:"email"`
	}
	if err := provider.apiGet(context, accessToken, "/user", &profile); err != nil {
		return "", err
	}
	if profile.Email != "" {
		return profile.Email, nil
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := provider.apiGet(context, accessToken, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, entry := range emails {
		if entry.Primary && entry.Verified {
			return entry.Email, nil
		}
	}

	return "", fmt.Errorf("oauth_no_usable_email")
}

// apiGet performs an authenticated GET against the GitHub API.
func (provider *GithubProvider) apiGet(context context.Context, accessToken, path string, target interface{}) error {
	request, err := http.NewRequestWithContext(context, http.MethodGet, provider.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("oauth_api_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Accept", "application/vnd.github+json")

	response, err := provider.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("oauth_api_call_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth_api_status: %d", response.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(target); err != nil {
		return fmt.Errorf("oauth_api_decode_failed: %w", err)
	}

	return nil
}

// # OAuth Login Flow

/*
OauthLogin resolves a provider-authenticated email to a local account and
issues a session.

Description: An existing account not yet linked to the provider is linked —
the provider is set, the password hash cleared, and the email marked
verified. This silently converts a password account to OAuth on email match
(an account-recovery convenience with a known trust trade-off). An absent
account is created pre-verified with no password.

Parameters:
  - context: context.Context
  - emailAddress: string
  - provider: OauthProvider

Returns:
  - *LoginResult: Sanitized user + session artifacts
  - error: Linking, creation, or issuance failures
*/
func (service *Service) OauthLogin(context context.Context, emailAddress string, provider OauthProvider) (*LoginResult, error) {
	user, err := service.users.FindByEmail(context, emailAddress)

	switch {
	case err == nil && user.AccountInfo.OauthProvider != provider:
		if linkErr := service.users.LinkOauthAccount(context, user.ID.Hex(), provider); linkErr != nil {
			return nil, linkErr
		}
		user.AccountInfo.OauthProvider = provider
		user.AccountInfo.PasswordHash = ""
		user.AccountInfo.EmailVerified = true

	case err != nil:
		if !apperr.IsAppError(err) {
			return nil, err
		}
		user = &User{
			AccountInfo: AccountInfo{
				Email:         emailAddress,
				EmailVerified: true,
				OauthProvider: provider,
			},
			IdentityInfo: IdentityInfo{ProfilePic: DefaultProfilePic},
			Role:         sec.RoleUser,
		}
		if createErr := service.users.Create(context, user); createErr != nil {
			return nil, createErr
		}
	}

	artifacts, err := service.issuer.IssueSession(context, user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: Sanitize(user), Artifacts: artifacts}, nil
}
