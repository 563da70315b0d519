// Package dashboard proxies invite creation to the external monitoring
// dashboard. The bot never stores dashboard accounts itself; it only
// forwards invite requests with its API key.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clanops/muster/pkg/muster"
)

// Config holds dashboard integration settings.
type Config struct {
	Enabled bool   `json:"enabled"`
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
}

// InviteRequest is the payload for a dashboard invite.
type InviteRequest struct {
	Name  string `json:"name"`
	Email string `json:"loginOrEmail"`
	Role  string `json:"role,omitempty"`
}

// Invite is the dashboard's view of a created invite.
type Invite struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	URL   string `json:"url"`
}

// Client talks to the dashboard's admin API.
type Client struct {
	config     Config
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a dashboard client.
func NewClient(cfg Config) (*Client, error) {
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	if cfg.BaseURL != "" {
		parsed, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid dashboard base URL: %w", err)
		}
		c.baseURL = parsed
	}

	return c, nil
}

// IsEnabled returns whether dashboard integration is active.
func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.baseURL != nil
}

// CreateInvite creates a dashboard invite for the given person. Failures
// map onto the shared taxonomy so the gateway can render them uniformly.
func (c *Client) CreateInvite(ctx context.Context, req InviteRequest) (Invite, error) {
	if !c.IsEnabled() {
		return Invite{}, fmt.Errorf("%w: dashboard integration disabled", muster.ErrUpstream)
	}
	if strings.TrimSpace(req.Email) == "" {
		return Invite{}, fmt.Errorf("%w: invite email is required", muster.ErrFormat)
	}
	if req.Role == "" {
		req.Role = "Viewer"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Invite{}, fmt.Errorf("%w: encode invite: %v", muster.ErrUpstream, err)
	}

	endpoint := c.baseURL.JoinPath("api", "admin", "invites")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return Invite{}, fmt.Errorf("%w: build request: %v", muster.ErrUpstream, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Invite{}, fmt.Errorf("%w: dashboard request: %v", muster.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Invite{}, fmt.Errorf("%w: dashboard invite endpoint", muster.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Invite{}, fmt.Errorf("%w: dashboard rejected API key", muster.ErrPermission)
	case resp.StatusCode >= 400:
		return Invite{}, fmt.Errorf("%w: dashboard status %d", muster.ErrUpstream, resp.StatusCode)
	}

	var invite Invite
	if err := json.NewDecoder(resp.Body).Decode(&invite); err != nil {
		return Invite{}, fmt.Errorf("%w: decode invite response: %v", muster.ErrUpstream, err)
	}
	return invite, nil
}
