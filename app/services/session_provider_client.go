// Package services contains external service integrations and support services
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Session provider errors
var (
	ErrSessionRejected     = errors.New("session rejected by identity provider")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// SessionData is the payload returned by the identity provider for a valid
// session id. SessionToken is the opaque token the provider minted; it is
// stored verbatim and becomes the caller's session credential.
type SessionData struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

// SessionProvider exchanges a one-time session id for session data. The
// exchange is a single synchronous call with a fixed timeout and no retry.
type SessionProvider interface {
	FetchSessionData(ctx context.Context, sessionID string) (*SessionData, error)
}

// SessionProviderClient is the HTTP implementation of SessionProvider
type SessionProviderClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewSessionProviderClient creates a session provider client
func NewSessionProviderClient(baseURL string, timeout time.Duration) *SessionProviderClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SessionProviderClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
	}
}

func (c *SessionProviderClient) Name() string { return "session-provider" }

// FetchSessionData calls GET /auth/v1/env/oauth/session-data with the
// X-Session-ID header. A non-200 response means the provider rejected the
// session id; transport failures surface as ErrProviderUnavailable.
func (c *SessionProviderClient) FetchSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	url := c.BaseURL + "/auth/v1/env/oauth/session-data"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSessionRejected, resp.StatusCode)
	}

	var data SessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}
	if data.Email == "" || data.SessionToken == "" {
		return nil, fmt.Errorf("%w: incomplete session data", ErrSessionRejected)
	}

	return &data, nil
}
