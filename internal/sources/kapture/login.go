package kapture

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

// StaticCookie is a CookieSource backed by a fixed, operator-supplied
// cookie header. Useful when the portal session is harvested out of
// band.
type StaticCookie string

func (s StaticCookie) Cookie(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("static kapture cookie is empty")
	}
	return string(s), nil
}

// FormLogin acquires a session by posting the portal login form and
// collecting every cookie the portal sets along the way.
type FormLogin struct {
	LoginURL string
	Username string
	Password string
	Client   *http.Client // base transport; a fresh cookie jar is attached per login
}

// Cookie performs the login and returns the joined cookie header.
func (f *FormLogin) Cookie(ctx context.Context) (string, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create cookie jar: %w", err)
	}

	base := f.Client
	if base == nil {
		base = http.DefaultClient
	}
	client := &http.Client{
		Transport: base.Transport,
		Timeout:   base.Timeout,
		Jar:       jar,
	}

	target, err := url.Parse(f.LoginURL)
	if err != nil {
		return "", fmt.Errorf("invalid kapture login url: %w", err)
	}

	form := url.Values{}
	form.Set("username_", f.Username)
	form.Set("password", f.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("kapture login failed: %w", err)
	}
	_ = resp.Body.Close()

	header := cookieHeader(jar.Cookies(target))
	// A successful portal login always sets a session; an empty header
	// means the credentials bounced even if the status was 200.
	if len(header) < 10 {
		return "", fmt.Errorf("no session cookies after kapture login (status %d)", resp.StatusCode)
	}
	return header, nil
}

func cookieHeader(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" || c.Value == "" {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
