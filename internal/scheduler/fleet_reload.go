package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/logger"
)

// FleetReloader handles periodic reloading of the fleet file
type FleetReloader struct {
	loader        *fleet.Loader
	registry      *fleet.Registry
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewFleetReloader creates a new fleet reloader
func NewFleetReloader(
	fleetFile string,
	registry *fleet.Registry,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *FleetReloader {
	return &FleetReloader{
		loader:        fleet.NewLoader(fleetFile),
		registry:      registry,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (fr *FleetReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := fr.Reload(ctx); err != nil {
		return fmt.Errorf("initial fleet load failed: %w", err)
	}

	ticker := time.NewTicker(fr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := fr.Reload(ctx); err != nil {
					fr.logger.Error("failed to reload fleet",
						logger.Error(err))
				}
			case <-fr.manualTrigger:
				fr.logger.Info("manual fleet reload triggered")
				if err := fr.Reload(ctx); err != nil {
					fr.logger.Error("failed to reload fleet",
						logger.Error(err))
				}
			case <-fr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (fr *FleetReloader) Stop() {
	close(fr.stopCh)
}

// Reload loads the fleet file and replaces the registry contents. A
// failed load keeps the previous fleet in place.
func (fr *FleetReloader) Reload(_ context.Context) error {
	fr.logger.Info("reloading fleet file")

	vessels, err := fr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load fleet: %w", err)
	}

	fr.registry.Update(vessels)
	fr.logger.Info("fleet loaded",
		logger.Int("vessels", len(vessels)))
	return nil
}
