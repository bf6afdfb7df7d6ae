// Package weather fetches current conditions for a coordinate from
// OpenWeather. The dashboard treats weather as best-effort, so
// callers degrade to an empty report when the key is unset or a
// lookup fails.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const apiBase = "https://api.openweathermap.org/data/2.5/weather"

// Report is the subset of the conditions payload the dashboard shows.
// Wind speed stays in the API's imperial unit (mph); only the
// temperature is converted.
type Report struct {
	TempC       float64 `json:"tempC"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"windSpeed"`
	Humidity    int     `json:"humidity"`
}

// fahrenheitToCelsius converts and rounds to one decimal place.
func fahrenheitToCelsius(f float64) float64 {
	return math.Round((f-32)*5/9*10) / 10
}

// Client looks up current conditions by coordinate.
type Client struct {
	apiKey string
	http   *http.Client
}

// New creates a weather client. An empty key yields a disabled client
// whose lookups always fail.
func New(apiKey string, httpClient *http.Client) *Client {
	return &Client{apiKey: apiKey, http: httpClient}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Current returns conditions at the given coordinate in metric units.
func (c *Client) Current(ctx context.Context, lat, lng float64) (*Report, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("weather lookups disabled: no API key configured")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("units", "imperial")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("weather API error: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	r := &Report{
		TempC:     fahrenheitToCelsius(out.Main.Temp),
		WindSpeed: out.Wind.Speed,
		Humidity:  out.Main.Humidity,
	}
	if len(out.Weather) > 0 {
		r.Description = out.Weather[0].Description
		r.Icon = out.Weather[0].Icon
	}
	return r, nil
}
