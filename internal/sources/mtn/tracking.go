package mtn

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mwas/shiptrack/internal/fleet"
)

// Position is the latest known fix for a vessel, shaped for the
// dashboard. Course and heading both carry the provider's azimuth.
type Position struct {
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	LastUpdated string   `json:"lastUpdated"`
	SpeedKts    *float64 `json:"speedKts"`
	CourseDeg   *float64 `json:"courseDeg"`
	HeadingDeg  *float64 `json:"headingDeg"`
}

// TrailPoint is one historical fix, oldest first in a trail.
type TrailPoint struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Date             string  `json:"date"`
	Status           string  `json:"status"`
	ConnectedDevices *int    `json:"connectedDevices"`
}

// flexString tolerates upstream fields that arrive as either a JSON
// string or a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type siteRow struct {
	MMSI              flexString `json:"mmsi"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	Speed             *float64   `json:"speed"`
	Azimuth           *float64   `json:"azimuth"`
	SiteName          string     `json:"site_name"`
	AccountName       string     `json:"account_name"`
	LocationUpdatedAt string     `json:"location_updated_at"`
}

// sitesResponse is the provider's fleet-wide listing envelope.
type sitesResponse struct {
	Rows []siteRow `json:"rows"`
}

// Location returns the vessel's latest position from the fleet-wide
// sites listing, matched by MMSI.
func (c *Client) Location(ctx context.Context, v fleet.Vessel) (*Position, error) {
	u := c.apiBase + "/v1/sites?page=1&with_usage=0&limit=10000"
	body, err := c.getJSON(ctx, u)
	if err != nil {
		return nil, err
	}

	var out sitesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode mtn sites response: %w", err)
	}

	for _, row := range out.Rows {
		if string(row.MMSI) != v.MMSI {
			continue
		}
		if !finite(row.Latitude) || !finite(row.Longitude) {
			return nil, fmt.Errorf("mtn site for mmsi %s has no usable coordinates", v.MMSI)
		}

		name := strings.TrimSpace(row.SiteName)
		if name == "" {
			name = strings.TrimSpace(row.AccountName)
		}
		if name == "" {
			name = v.Name
		}

		updated := row.LocationUpdatedAt
		if updated == "" {
			updated = c.now().UTC().Format(time.RFC3339)
		}

		return &Position{
			Name:        name,
			Lat:         row.Latitude,
			Lng:         row.Longitude,
			LastUpdated: updated,
			SpeedKts:    row.Speed,
			CourseDeg:   row.Azimuth,
			HeadingDeg:  row.Azimuth,
		}, nil
	}
	return nil, fmt.Errorf("mmsi %s not found in mtn sites listing", v.MMSI)
}

type trackRow struct {
	Lat              float64    `json:"lat"`
	Lng              float64    `json:"lng"`
	Date             string     `json:"date"`
	Status           flexString `json:"status"`
	ConnectedDevices *int       `json:"connected_devices"`
}

// Track returns the vessel's position history over the given number of
// hours, oldest point first. The history endpoint answers with a bare
// top-level array, not an envelope.
func (c *Client) Track(ctx context.Context, v fleet.Vessel, hours int) ([]TrailPoint, error) {
	now := c.now()
	start := now.Add(-time.Duration(hours) * time.Hour)

	q := url.Values{}
	q.Set("startDate", formatStamp(start))
	q.Set("endDate", formatStamp(now))
	u := fmt.Sprintf("%s/v1/accounts/%d/sites/%d/tracking?%s", c.apiBase, v.MTNAccountID, v.MTNSiteID, q.Encode())

	body, err := c.getJSON(ctx, u)
	if err != nil {
		return nil, err
	}

	var rows []trackRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode mtn tracking response: %w", err)
	}

	points := make([]TrailPoint, 0, len(rows))
	for _, row := range rows {
		if !finite(row.Lat) || !finite(row.Lng) {
			continue
		}
		points = append(points, TrailPoint{
			Lat:              row.Lat,
			Lng:              row.Lng,
			Date:             row.Date,
			Status:           string(row.Status),
			ConnectedDevices: row.ConnectedDevices,
		})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

// formatStamp renders a timestamp the way the tracking API expects:
// shifted forward five hours, then printed from UTC fields as
// "YYYY-MM-DD HH:MM:SS".
func formatStamp(t time.Time) string {
	return t.Add(5 * time.Hour).UTC().Format("2006-01-02 15:04:05")
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
