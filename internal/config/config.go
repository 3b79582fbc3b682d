package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DemoAPIKey is the placeholder credential that also selects mock mode.
const DemoAPIKey = "demo_key_for_testing"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type AppConfig struct {
	// WeatherAPIKey is the upstream credential. Empty means mock mode.
	WeatherAPIKey  string
	WeatherBaseURL string
	WeatherLang    string

	UpstreamTimeout time.Duration
	UpstreamRPS     float64 // 0 disables the upstream limiter
	UpstreamBurst   int

	// MaskUpstreamErrors serves mock data when the provider fails.
	MaskUpstreamErrors bool

	Port           string
	Environment    string
	AllowedOrigins []string

	// Request throttling per client IP.
	RateLimitWindow     time.Duration
	RateLimitMax        int
	WeatherRateLimitMax int

	// ProbeInterval controls the upstream reachability check (0 = disabled).
	ProbeInterval time.Duration
}

// Load reads an optional .env file and then the environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	if cfg.WeatherAPIKey == DemoAPIKey {
		cfg.WeatherAPIKey = ""
	}
	cfg.WeatherBaseURL = getenvDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.WeatherLang = getenvDefault("WEATHER_LANG", "sv")

	var err error
	if cfg.UpstreamTimeout, err = getenvDuration("UPSTREAM_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpstreamRPS, err = getenvFloat("UPSTREAM_RPS", 1); err != nil {
		return nil, err
	}
	cfg.UpstreamBurst = getenvInt("UPSTREAM_BURST", 5)

	if cfg.MaskUpstreamErrors, err = getenvBool("MASK_UPSTREAM_ERRORS", true); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "5002")
	cfg.Environment = strings.ToLower(getenvDefault("APP_ENV", EnvDevelopment))

	defaultOrigins := "http://localhost:3000"
	if cfg.IsProduction() {
		defaultOrigins = "https://yourdomain.com"
	}
	cfg.AllowedOrigins = splitList(getenvDefault("ALLOWED_ORIGINS", defaultOrigins))

	if cfg.RateLimitWindow, err = getenvDuration("RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	cfg.RateLimitMax = getenvInt("RATE_LIMIT_MAX", 1000)
	cfg.WeatherRateLimitMax = getenvInt("WEATHER_RATE_LIMIT_MAX", 100)

	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MockMode reports whether no live upstream credential is configured.
func (c *AppConfig) MockMode() bool {
	return c.WeatherAPIKey == ""
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
