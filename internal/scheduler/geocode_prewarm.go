package scheduler

import (
	"context"
	"time"

	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/sailing"
	"github.com/mwas/shiptrack/internal/sources/geocode"
	"github.com/mwas/shiptrack/internal/sources/kapture"
)

// GeocodePrewarmer periodically walks every vessel's current itinerary
// and geocodes its ports, so dashboard requests hit the memo instead of
// the upstream API.
type GeocodePrewarmer struct {
	registry      *fleet.Registry
	kapture       *kapture.Client
	resolver      *geocode.Resolver
	cutoff        sailing.Cutoff
	loc           *time.Location
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewGeocodePrewarmer creates a new geocode prewarmer
func NewGeocodePrewarmer(
	registry *fleet.Registry,
	kap *kapture.Client,
	resolver *geocode.Resolver,
	cutoff sailing.Cutoff,
	loc *time.Location,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *GeocodePrewarmer {
	return &GeocodePrewarmer{
		registry:      registry,
		kapture:       kap,
		resolver:      resolver,
		cutoff:        cutoff,
		loc:           loc,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic prewarm process. Unlike the fleet reload,
// the first pass runs in the background: prewarming is an optimization
// and must not block startup on slow upstreams.
func (gp *GeocodePrewarmer) Start(ctx context.Context) {
	ticker := time.NewTicker(gp.interval)
	go func() {
		defer ticker.Stop()

		gp.Prewarm(ctx)

		for {
			select {
			case <-ticker.C:
				gp.Prewarm(ctx)
			case <-gp.manualTrigger:
				gp.logger.Info("manual geocode prewarm triggered")
				gp.Prewarm(ctx)
			case <-gp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the prewarmer
func (gp *GeocodePrewarmer) Stop() {
	close(gp.stopCh)
}

// Prewarm geocodes every port of every vessel's current itinerary.
// Failures are logged and skipped so one bad vessel never blocks the
// rest of the fleet.
func (gp *GeocodePrewarmer) Prewarm(ctx context.Context) {
	for _, v := range gp.registry.All() {
		if err := gp.prewarmVessel(ctx, v); err != nil {
			gp.logger.Warn("geocode prewarm failed for vessel",
				logger.String("vessel", v.Slug),
				logger.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (gp *GeocodePrewarmer) prewarmVessel(ctx context.Context, v fleet.Vessel) error {
	now := time.Now()
	loc := v.Location(gp.loc)
	clock := sailing.NewClock(now, gp.cutoff, loc)
	months := sailing.ProbeMonths(now, loc)

	decision := sailing.Resolve(ctx, clock, months, func(ctx context.Context, ref sailing.MonthRef) ([]sailing.Range, error) {
		return gp.kapture.MonthCandidates(ctx, v.CruiseID, ref)
	})
	if decision == nil {
		gp.logger.Info("no current sailing to prewarm",
			logger.String("vessel", v.Slug))
		return nil
	}

	rows, err := gp.kapture.Itinerary(ctx, decision.SailingID)
	if err != nil {
		return err
	}

	warmed := 0
	for _, row := range rows {
		ll, err := gp.resolver.Resolve(ctx, row.Port)
		if err != nil {
			gp.logger.Warn("geocode prewarm lookup failed",
				logger.String("port", row.Port),
				logger.Error(err))
			continue
		}
		if ll != nil {
			warmed++
		}
	}

	gp.logger.Info("geocode prewarm finished",
		logger.String("vessel", v.Slug),
		logger.String("sailing", decision.SailingID),
		logger.Int("ports", len(rows)),
		logger.Int("resolved", warmed))
	return nil
}
