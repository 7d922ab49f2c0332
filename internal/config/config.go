package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	LogLevel    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BundlePath          string
	PublicBaseURL       string
	BundleCacheTTLSecs  int
	BundleReloadSeconds int

	// Fixed-window tiers. A zero request count disables the tier.
	IPLimitRequests     int
	IPLimitWindowMS     int
	WidgetLimitRequests int
	WidgetLimitWindowMS int
	RelayLimitRequests  int
	RelayLimitWindowMS  int
	RateLimitMaxKeys    int

	TrustProxyHeaders bool
	SeedFile          string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:            envDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envDefault("LOG_LEVEL", "info"),
		PostgresDSN:         os.Getenv("POSTGRES_DSN"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             envIntDefault("REDIS_DB", 0),
		BundlePath:          envDefault("BUNDLE_PATH", "assets/widget.bundle.js"),
		PublicBaseURL:       envDefault("PUBLIC_BASE_URL", "http://localhost:8080"),
		BundleCacheTTLSecs:  envIntDefault("BUNDLE_CACHE_TTL_SECONDS", 60),
		BundleReloadSeconds: envIntDefault("BUNDLE_RELOAD_SECONDS", 0),
		IPLimitRequests:     envIntDefault("RATE_LIMIT_IP_REQUESTS", 10),
		IPLimitWindowMS:     envIntDefault("RATE_LIMIT_IP_WINDOW_MS", 1000),
		WidgetLimitRequests: envIntDefault("RATE_LIMIT_WIDGET_REQUESTS", 100),
		WidgetLimitWindowMS: envIntDefault("RATE_LIMIT_WIDGET_WINDOW_MS", 60000),
		RelayLimitRequests:  envIntDefault("RATE_LIMIT_RELAY_REQUESTS", 0),
		RelayLimitWindowMS:  envIntDefault("RATE_LIMIT_RELAY_WINDOW_MS", 60000),
		RateLimitMaxKeys:    envIntDefault("RATE_LIMIT_MAX_KEYS", 10000),
		TrustProxyHeaders:   envBoolDefault("TRUST_PROXY_HEADERS", false),
		SeedFile:            os.Getenv("WIDGETGATE_SEED_FILE"),
	}
}

func (c Config) BundleCacheTTL() time.Duration {
	if c.BundleCacheTTLSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.BundleCacheTTLSecs) * time.Second
}

func (c Config) BundleReload() time.Duration {
	if c.BundleReloadSeconds <= 0 {
		return 0
	}
	return time.Duration(c.BundleReloadSeconds) * time.Second
}

func (c Config) IPLimitWindow() time.Duration {
	return time.Duration(c.IPLimitWindowMS) * time.Millisecond
}

func (c Config) WidgetLimitWindow() time.Duration {
	return time.Duration(c.WidgetLimitWindowMS) * time.Millisecond
}

func (c Config) RelayLimitWindow() time.Duration {
	return time.Duration(c.RelayLimitWindowMS) * time.Millisecond
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func envBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "No":
		return false
	default:
		return def
	}
}
