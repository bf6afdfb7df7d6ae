// Package kapture talks to the CRM that publishes sailing schedules and
// itineraries as scraped HTML tables behind a cookie-authenticated
// employee portal.
package kapture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwas/shiptrack/internal/credcache"
	"github.com/mwas/shiptrack/internal/logger"
)

const cookieCacheKey = "kapture:cookie"

// browser-ish headers the portal's XHR endpoints expect
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.6 Safari/605.1.15"

// CookieSource acquires a fresh session cookie header. Acquisition is
// expensive (a full portal login), so results go through the credential
// cache and sources are only consulted on miss or forced invalidation.
type CookieSource interface {
	Cookie(ctx context.Context) (string, error)
}

// Client fetches schedule pages from the CRM portal.
type Client struct {
	baseURL   string
	http      *http.Client
	creds     *credcache.Cache
	cookies   CookieSource
	cookieTTL time.Duration
	logger    logger.Logger
}

// New creates a CRM client. baseURL is the portal origin without a
// trailing slash.
func New(baseURL string, httpClient *http.Client, creds *credcache.Cache, cookies CookieSource, cookieTTL time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		creds:     creds,
		cookies:   cookies,
		cookieTTL: cookieTTL,
		logger:    log,
	}
}

type page struct {
	status int
	body   string
}

// postForm fetches one portal page, authenticating with the cached
// cookie. A 401/403 evicts the cookie and retries exactly once with a
// freshly acquired one; a second rejection surfaces as an error.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, error) {
	res, err := credcache.WithRetry(ctx, c.creds, cookieCacheKey, c.cookieTTL,
		c.cookies.Cookie,
		func(ctx context.Context, cookie string) (page, error) {
			return c.doPostForm(ctx, path, form, cookie)
		},
		func(p page) bool {
			return p.status == http.StatusUnauthorized || p.status == http.StatusForbidden
		},
	)
	if err != nil {
		return "", err
	}
	if res.status == http.StatusUnauthorized || res.status == http.StatusForbidden {
		return "", fmt.Errorf("kapture rejected credentials twice for %s (status %d)", path, res.status)
	}
	if res.status != http.StatusOK {
		return "", fmt.Errorf("kapture %s returned status %d", path, res.status)
	}
	return res.body, nil
}

func (c *Client) doPostForm(ctx context.Context, path string, form url.Values, cookie string) (page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return page{}, fmt.Errorf("failed to build kapture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/employee/cruise-sailing-details.html")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cookie", cookie)

	resp, err := c.http.Do(req)
	if err != nil {
		return page{}, fmt.Errorf("kapture request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page{}, fmt.Errorf("failed to read kapture response: %w", err)
	}
	return page{status: resp.StatusCode, body: string(body)}, nil
}
