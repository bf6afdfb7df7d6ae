// Package mtn talks to the satellite-tracking provider: bearer-token
// auth, the fleet-wide sites list for live position, and per-site
// position history.
package mtn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwas/shiptrack/internal/credcache"
	"github.com/mwas/shiptrack/internal/logger"
)

const (
	tokenCacheKey  = "mtn:token"
	defaultAPIBase = "https://customer-api.mtnsat.com"
)

// Client calls the tracking provider's customer API.
type Client struct {
	apiBase  string
	authURL  string
	username string
	password string
	http     *http.Client
	creds    *credcache.Cache
	tokenTTL time.Duration
	logger   logger.Logger
	now      func() time.Time
}

// Options configures a tracking client.
type Options struct {
	APIBase  string // empty = production API
	AuthURL  string
	Username string
	Password string
	TokenTTL time.Duration
}

// New creates a tracking client.
func New(opts Options, httpClient *http.Client, creds *credcache.Cache, log logger.Logger) *Client {
	base := opts.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	return &Client{
		apiBase:  strings.TrimRight(base, "/"),
		authURL:  opts.AuthURL,
		username: opts.Username,
		password: opts.Password,
		http:     httpClient,
		creds:    creds,
		tokenTTL: opts.TokenTTL,
		logger:   log,
		now:      time.Now,
	}
}

// refreshToken performs a fresh login against the auth endpoint.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build mtn auth request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer null")
	req.Header.Set("User-Agent", "shiptrack/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mtn auth request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("mtn auth error: %d %s %s", resp.StatusCode, resp.Status, string(body))
	}

	var out struct {
		JWTToken string `json:"jwt_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode mtn auth response: %w", err)
	}
	if out.JWTToken == "" {
		return "", fmt.Errorf("mtn auth response missing jwt_token")
	}
	return out.JWTToken, nil
}

type apiResult struct {
	status int
	body   []byte
}

// getJSON performs an authenticated GET, refreshing the token once if
// the API rejects the cached one.
func (c *Client) getJSON(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := credcache.WithRetry(ctx, c.creds, tokenCacheKey, c.tokenTTL,
		c.refreshToken,
		func(ctx context.Context, token string) (apiResult, error) {
			return c.doGet(ctx, rawURL, token)
		},
		func(r apiResult) bool {
			return r.status == http.StatusUnauthorized || r.status == http.StatusForbidden
		},
	)
	if err != nil {
		return nil, err
	}
	if res.status != http.StatusOK {
		return nil, fmt.Errorf("mtn API error: status %d | body: %s", res.status, truncate(res.body, 500))
	}
	return res.body, nil
}

func (c *Client) doGet(ctx context.Context, rawURL, token string) (apiResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return apiResult{}, fmt.Errorf("failed to build mtn request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return apiResult{}, fmt.Errorf("mtn request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiResult{}, fmt.Errorf("failed to read mtn response: %w", err)
	}
	return apiResult{status: resp.StatusCode, body: body}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
