package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mwas/shiptrack/internal/config"
	"github.com/mwas/shiptrack/internal/credcache"
	"github.com/mwas/shiptrack/internal/fleet"
	"github.com/mwas/shiptrack/internal/httpserver"
	"github.com/mwas/shiptrack/internal/httpserver/deps"
	"github.com/mwas/shiptrack/internal/logger"
	"github.com/mwas/shiptrack/internal/redis"
	"github.com/mwas/shiptrack/internal/sailing"
	"github.com/mwas/shiptrack/internal/scheduler"
	"github.com/mwas/shiptrack/internal/sources/geocode"
	"github.com/mwas/shiptrack/internal/sources/kapture"
	"github.com/mwas/shiptrack/internal/sources/mtn"
	"github.com/mwas/shiptrack/internal/sources/weather"
	redisstore "github.com/mwas/shiptrack/internal/store/redis"
	"github.com/mwas/shiptrack/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.FleetReloader
	prewarmer   *scheduler.GeocodePrewarmer
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loggerClient.Errorf("Invalid timezone %q: %v", cfg.Timezone, err)
		os.Exit(1)
	}

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	creds := credcache.New()
	upstream := &http.Client{Timeout: cfg.UpstreamTO}

	// CRM cookie: a static cookie wins over form login when both are set.
	var cookies kapture.CookieSource
	if cfg.KaptureCookie != "" {
		cookies = kapture.StaticCookie(cfg.KaptureCookie)
	} else {
		cookies = &kapture.FormLogin{
			LoginURL: cfg.KaptureLoginURL,
			Username: cfg.KaptureUser,
			Password: cfg.KapturePassword,
			Client:   upstream,
		}
	}

	kaptureClient := kapture.New(cfg.KaptureBaseURL, upstream, creds, cookies, cfg.CookieTTL, loggerClient)
	mtnClient := mtn.New(mtn.Options{
		AuthURL:  cfg.MTNAuthURL,
		Username: cfg.MTNUser,
		Password: cfg.MTNPass,
		TokenTTL: cfg.TokenTTL,
	}, upstream, creds, loggerClient)
	weatherClient := weather.New(cfg.OpenWeatherKey, upstream)
	geocoder := geocode.New(cfg.GeocodingKey, upstream, store, loggerClient)

	cutoff := sailing.Cutoff{Hour: cfg.CutoffHour, Minute: cfg.CutoffMinute}
	window := sailing.WindowBounds{Min: cfg.HistoryMin, Max: cfg.HistoryMax, Fallback: cfg.HistoryDflt}

	registry := fleet.NewRegistry()

	// Manual trigger channels for the admin reload endpoint
	reloadTrigger := make(chan struct{}, 1)
	prewarmTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewFleetReloader(
		cfg.FleetFile,
		registry,
		loggerClient,
		cfg.FleetReloadIvl,
		reloadTrigger,
	)

	prewarmer := scheduler.NewGeocodePrewarmer(
		registry,
		kaptureClient,
		geocoder,
		cutoff,
		loc,
		loggerClient,
		cfg.PrewarmInterval,
		prewarmTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RedisClient:    redisClient,
		Registry:       registry,
		Store:          store,
		Schedule:       kaptureClient,
		Tracking:       mtnClient,
		Weather:        weatherClient,
		Geocoder:       geocoder,
		Cutoff:         cutoff,
		Location:       loc,
		Window:         window,
		ReloadTrigger:  reloadTrigger,
		PrewarmTrigger: prewarmTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		prewarmer:   prewarmer,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting shiptrack v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("shiptrack %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start fleet reloader (loads the fleet file and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start fleet reloader: %w", err)
	}
	a.logger.Info("fleet reloader started",
		logger.Duration("interval", a.cfg.FleetReloadIvl))

	// Start geocode prewarmer (first sweep runs in the background)
	a.prewarmer.Start(ctx)
	a.logger.Info("geocode prewarmer started",
		logger.Duration("interval", a.cfg.PrewarmInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.prewarmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ shiptrack stopped cleanly")
	return nil
}
