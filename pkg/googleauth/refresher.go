// Package googleauth talks to Google's OAuth token endpoint. The refresher is
// a pure function of the refresh token: it never touches storage, so the
// resolver stays the only place that decides what to persist.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/google"

	"uniwork-backend/pkg/faults"
)

// RefreshResult is a freshly minted access token with its relative lifetime.
// Callers convert ExpiresIn into an absolute timestamp at the moment of use.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64 // seconds
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}

type refresher struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
}

// NewRefresher creates a Refresher against Google's token endpoint with a
// bounded per-call timeout.
func NewRefresher(clientID, clientSecret string, timeout time.Duration) Refresher {
	return &refresher{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     google.Endpoint.TokenURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// NewRefresherForEndpoint is like NewRefresher but against an arbitrary token
// URL. Used by tests and non-Google deployments of the same contract.
func NewRefresherForEndpoint(clientID, clientSecret, tokenURL string, timeout time.Duration) Refresher {
	return &refresher{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r *refresher) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	form := url.Values{
		"client_id":     {r.clientID},
		"client_secret": {r.clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &faults.TransportError{Op: "token refresh", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &faults.TransportError{Op: "token refresh", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// handled below
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		// The provider looked at the grant and said no. The refresh token is
		// dead; only a full interactive re-auth can recover.
		var te tokenError
		_ = json.Unmarshal(body, &te)
		reason := te.Error
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, &faults.TerminalAuthError{Op: "token refresh", Reason: reason}
	default:
		return nil, &faults.TransportError{
			Op:  "token refresh",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, &faults.TerminalAuthError{Op: "token refresh", Reason: "no access token in response"}
	}

	return &RefreshResult{AccessToken: tr.AccessToken, ExpiresIn: tr.ExpiresIn}, nil
}
