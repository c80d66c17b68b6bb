// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// =============================================================================
// DEVICE FLOW PROVIDER
// =============================================================================

// DeviceConfig configures the OAuth2 device-authorization provider.
type DeviceConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string // device authorization endpoint
	TokenURL     string
	UserInfoURL  string // OpenID userinfo endpoint
	Scopes       []string
}

// DeviceProvider signs the user in with the OAuth2 device-authorization
// grant: it prints a verification URL plus code and polls for the token,
// then resolves the user handle from the userinfo endpoint.
type DeviceProvider struct {
	config DeviceConfig
	oauth  *oauth2.Config
	client *http.Client

	// Prompt receives the verification URI and user code to display.
	// Defaults to printing on stdout.
	Prompt func(verificationURI, userCode string)

	observers
}

// NewDeviceProvider creates a device-flow provider.
func NewDeviceProvider(cfg DeviceConfig) *DeviceProvider {
	return &DeviceProvider{
		config: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				DeviceAuthURL: cfg.AuthURL,
				TokenURL:      cfg.TokenURL,
			},
		},
		client: &http.Client{Timeout: 15 * time.Second},
		Prompt: func(uri, code string) {
			fmt.Printf("To sign in, open %s and enter code %s\n", uri, code)
		},
	}
}

// userInfo is the OpenID Connect userinfo response shape.
type userInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// SignIn runs the device-authorization flow. Blocks until the user
// approves the device, the code expires, or ctx is cancelled.
func (p *DeviceProvider) SignIn(ctx context.Context) (*User, error) {
	auth, err := p.oauth.DeviceAuth(ctx)
	if err != nil {
		return nil, &AuthError{Message: "device authorization failed", Cause: err}
	}

	if p.Prompt != nil {
		p.Prompt(auth.VerificationURI, auth.UserCode)
	}

	token, err := p.oauth.DeviceAccessToken(ctx, auth)
	if err != nil {
		return nil, &AuthError{Message: "sign-in was not completed", Cause: err}
	}

	user, err := p.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	p.notify(user)
	return user, nil
}

// fetchUser resolves the user handle from the userinfo endpoint.
func (p *DeviceProvider) fetchUser(ctx context.Context, token *oauth2.Token) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, &AuthError{Message: "failed to create userinfo request", Cause: err}
	}
	token.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &AuthError{Message: "userinfo request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &AuthError{Message: "userinfo request rejected: " + resp.Status}
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &AuthError{Message: "failed to decode userinfo", Cause: err}
	}
	if info.Sub == "" {
		return nil, &AuthError{Message: "userinfo response missing subject"}
	}

	return &User{
		ID:          info.Sub,
		DisplayName: info.Name,
		Email:       info.Email,
		AvatarURL:   info.Picture,
	}, nil
}

// SignOut notifies observers of teardown.
func (p *DeviceProvider) SignOut() {
	p.notify(nil)
}

// OnAuthStateChange registers an auth-state observer.
func (p *DeviceProvider) OnAuthStateChange(fn func(*User)) func() {
	return p.add(fn)
}
