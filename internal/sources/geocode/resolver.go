// Package geocode resolves itinerary port names to coordinates through
// the Google Geocoding API, memoizing every result in redis so each
// distinct place is looked up at most once for the life of the
// deployment.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mwas/shiptrack/internal/logger"
	store "github.com/mwas/shiptrack/internal/store/redis"
)

const apiBase = "https://maps.googleapis.com/maps/api/geocode/json"

var atSeaMarkers = []string{"at sea", "sea day", "cruising", "sailing"}

// IsAtSea reports whether a port label names open water rather than a
// geocodable place.
func IsAtSea(place string) bool {
	p := strings.ToLower(strings.TrimSpace(place))
	for _, marker := range atSeaMarkers {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

// Resolver memoizes geocoding lookups in the redis-backed store.
type Resolver struct {
	apiKey string
	http   *http.Client
	store  *store.Store
	logger logger.Logger
}

// New creates a resolver. An empty key disables upstream lookups, so
// only already-memoized places resolve.
func New(apiKey string, httpClient *http.Client, st *store.Store, log logger.Logger) *Resolver {
	return &Resolver{apiKey: apiKey, http: httpClient, store: st, logger: log}
}

// Resolve returns the coordinate for a place name, or nil when the
// place is open water, unknown, or the lookup fails. A nil result is
// not an error for callers: itinerary rows render without pins.
func (r *Resolver) Resolve(ctx context.Context, place string) (*store.LatLng, error) {
	if place == "" || IsAtSea(place) {
		return nil, nil
	}

	cached, err := r.store.GetLatLng(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("geocode memo read failed: %w", err)
	}
	if cached != nil {
		return cached, nil
	}

	if r.apiKey == "" {
		return nil, nil
	}

	ll, err := r.lookup(ctx, place)
	if err != nil {
		r.logger.Warn("geocoding lookup failed",
			logger.String("place", place),
			logger.Error(err),
		)
		return nil, nil
	}
	if ll == nil {
		return nil, nil
	}

	if err := r.store.PutLatLng(ctx, place, *ll); err != nil {
		r.logger.Warn("geocode memo write failed",
			logger.String("place", place),
			logger.Error(err),
		)
	}
	return ll, nil
}

// lookup queries the Google Geocoding API for one place.
func (r *Resolver) lookup(ctx context.Context, place string) (*store.LatLng, error) {
	q := url.Values{}
	q.Set("address", place)
	q.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoding API error: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if out.Status == "ZERO_RESULTS" || len(out.Results) == 0 {
		return nil, nil
	}
	if out.Status != "OK" {
		return nil, fmt.Errorf("geocoding status %s", out.Status)
	}

	loc := out.Results[0].Geometry.Location
	return &store.LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}
