package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	FleetFile       string        // path to the fleet.yaml vessel definitions
	FleetReloadIvl  time.Duration // interval to reload fleet.yaml (default: 24h)
	PrewarmInterval time.Duration // interval between geocode prewarm sweeps (default: 6h)

	Timezone     string        // reference IANA zone for sailing resolution (default: America/New_York)
	CutoffHour   int           // daily turnaround cutoff, hour (default: 11)
	CutoffMinute int           // daily turnaround cutoff, minute (default: 30)
	HistoryMin   int           // lower clamp on the trail lookback window, hours
	HistoryMax   int           // upper clamp on the trail lookback window, hours
	HistoryDflt  int           // fallback window when no sailing resolves, hours
	CookieTTL    time.Duration // CRM cookie cache lifetime (default: 12h)
	TokenTTL     time.Duration // tracking token cache lifetime (default: 1h)
	UpstreamTO   time.Duration // per-request timeout for upstream providers (default: 20s)

	// CRM (scraped schedule source)
	KaptureBaseURL  string // ex: https://bahamas.kapturecrm.com
	KaptureLoginURL string // login page for cookie acquisition
	KaptureUser     string
	KapturePassword string
	KaptureCookie   string // optional static cookie, skips login entirely

	// Tracking provider
	MTNAuthURL string
	MTNUser    string
	MTNPass    string

	// Enrichment providers (optional; features degrade when unset)
	OpenWeatherKey string
	GeocodingKey   string

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict admin endpoints to specific IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TRACKER_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TRACKER_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TRACKER_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TRACKER_PRETTY_LOG", true),

		// Fleet
		FleetFile:       getenv("TRACKER_FLEET_FILE", "/app/fleet.yaml"),
		FleetReloadIvl:  mustDuration("TRACKER_FLEET_RELOAD_INTERVAL", 24*time.Hour),
		PrewarmInterval: mustDuration("TRACKER_PREWARM_INTERVAL", 6*time.Hour),

		// Sailing resolution
		Timezone:     getenv("TRACKER_TIMEZONE", "America/New_York"),
		CutoffHour:   getenvInt("TRACKER_CUTOFF_HOUR", 11),
		CutoffMinute: getenvInt("TRACKER_CUTOFF_MINUTE", 30),
		HistoryMin:   getenvInt("TRACKER_HISTORY_MIN_HOURS", 1),
		HistoryMax:   getenvInt("TRACKER_HISTORY_MAX_HOURS", 72),
		HistoryDflt:  getenvInt("TRACKER_HISTORY_FALLBACK_HOURS", 24),
		CookieTTL:    mustDuration("TRACKER_COOKIE_TTL", 12*time.Hour),
		TokenTTL:     mustDuration("TRACKER_TOKEN_TTL", time.Hour),
		UpstreamTO:   mustDuration("TRACKER_UPSTREAM_TIMEOUT", 20*time.Second),

		// Upstream providers
		KaptureBaseURL:  getenv("KAPTURE_BASE_URL", "https://bahamas.kapturecrm.com"),
		KaptureLoginURL: getenv("KAPTURE_LOGIN_URL", ""),
		KaptureUser:     getenv("KAPTURE_USERNAME", ""),
		KapturePassword: getenv("KAPTURE_PASSWORD", ""),
		KaptureCookie:   getenv("KAPTURE_COOKIE", ""),
		MTNAuthURL:      requireEnv("MTN_AUTH_URL"),
		MTNUser:         requireEnv("MTN_USER"),
		MTNPass:         requireEnv("MTN_PASS"),
		OpenWeatherKey:  getenv("OPENWEATHER_API_KEY", ""),
		GeocodingKey:    getenv("GOOGLE_GEOCODING_API_KEY", ""),

		// Redis settings
		RedisAddr:             requireEnv("TRACKER_REDIS_ADDR"),
		RedisUser:             getenv("TRACKER_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("TRACKER_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("TRACKER_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("TRACKER_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions (admin endpoints)
		AllowedCIDRS: parseAllowedIPs(getenv("TRACKER_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("TRACKER_TRUST_PROXY", true),
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TRACKER_REDIS_PASSWORD is required when TRACKER_REDIS_PASSWORD_REQUIRED=true")
	}

	// The scraped source needs either a static cookie or login credentials.
	if cfg.KaptureCookie == "" && (cfg.KaptureLoginURL == "" || cfg.KaptureUser == "" || cfg.KapturePassword == "") {
		panic("❌ FATAL: set KAPTURE_COOKIE or KAPTURE_LOGIN_URL + KAPTURE_USERNAME + KAPTURE_PASSWORD")
	}

	if cfg.HistoryMin < 1 || cfg.HistoryMax < cfg.HistoryMin {
		panic(fmt.Sprintf("❌ FATAL: invalid history bounds [%d, %d]", cfg.HistoryMin, cfg.HistoryMax))
	}
	if cfg.CutoffHour < 0 || cfg.CutoffHour > 23 || cfg.CutoffMinute < 0 || cfg.CutoffMinute > 59 {
		panic(fmt.Sprintf("❌ FATAL: invalid cutoff %02d:%02d", cfg.CutoffHour, cfg.CutoffMinute))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.KapturePassword = "***REDACTED***"
		cfgCopy.KaptureCookie = "***REDACTED***"
		cfgCopy.MTNPass = "***REDACTED***"
		cfgCopy.OpenWeatherKey = "***REDACTED***"
		cfgCopy.GeocodingKey = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
