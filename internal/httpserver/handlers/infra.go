package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mwas/shiptrack/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	VesselsLoaded  *int   `json:"vessels_loaded,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	PlacesMemoized *int   `json:"places_memoized,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of the pieces behind the dashboard: the
// fleet registry, redis, and the geocode memo.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vesselCount := d.Registry.Count()
		lastReload := d.Registry.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		redisStatus := checkRedis(d)

		components := map[string]componentStatus{
			"fleet": {
				OK:            vesselCount > 0,
				VesselsLoaded: &vesselCount,
				LastReload:    lastReloadStr,
			},
			"redis": redisStatus,
		}

		if redisStatus.OK {
			components["geocode_memo"] = checkGeocodeMemo(d)
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}
		writeJSON(w, http.StatusOK, response)
	}
}

func determineMode(components map[string]componentStatus) string {
	if fleet, exists := components["fleet"]; exists && !fleet.OK {
		return "critical" // no vessels means nothing to serve
	}
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded" // geocode memo unavailable, every lookup goes upstream
	}
	return "ok"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Impact: "geocode-memo-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "geocode-memo-disabled",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true}
}

func checkGeocodeMemo(d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := d.Store.EntryCount(ctx)
	if err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true, PlacesMemoized: &n}
}
