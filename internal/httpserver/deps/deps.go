package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sailing"
	"github.com/mwas/shiptrack/internal/sources/kapture"
	"github.com/mwas/shiptrack/internal/sources/mtn"
	"github.com/mwas/shiptrack/internal/sources/weather"
	store "github.com/mwas/shiptrack/internal/store/redis"
)

// ScheduleSource supplies sailing calendars and itineraries. The
// production implementation scrapes the CRM portal.
type ScheduleSource interface {
	MonthCandidates(ctx context.Context, cruiseID string, ref sailing.MonthRef) ([]sailing.Range, error)
	Itinerary(ctx context.Context, sailingID string) ([]kapture.ItineraryRow, error)
}

// TrackingSource supplies live positions and position history.
type TrackingSource interface {
	Location(ctx context.Context, v fleet.Vessel) (*mtn.Position, error)
	Track(ctx context.Context, v fleet.Vessel, hours int) ([]mtn.TrailPoint, error)
}

// WeatherSource supplies current conditions for a coordinate.
type WeatherSource interface {
	Enabled() bool
	Current(ctx context.Context, lat, lng float64) (*weather.Report, error)
}

// PortResolver turns port names into coordinates.
type PortResolver interface {
	Resolve(ctx context.Context, place string) (*store.LatLng, error)
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS   []string         // IPs allowed to access admin endpoints
	TrustProxy     bool             // true if running behind a trusted reverse proxy
	RedisClient    *redis.Client
	Registry       *fleet.Registry
	Store          *store.Store
	Schedule       ScheduleSource
	Tracking       TrackingSource
	Weather        WeatherSource
	Geocoder       PortResolver
	Cutoff         sailing.Cutoff // turnaround-day boundary in ship local time
	Location       *time.Location // ship local timezone
	Window         sailing.WindowBounds
	ReloadTrigger  chan struct{} // channel to trigger manual fleet reload
	PrewarmTrigger chan struct{} // channel to trigger manual geocode prewarm
}

// Now returns the injected clock, falling back to time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
