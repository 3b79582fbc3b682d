package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"WEATHER_API_KEY", "WEATHER_BASE_URL", "WEATHER_LANG", "UPSTREAM_TIMEOUT", "UPSTREAM_RPS",
		"UPSTREAM_BURST", "MASK_UPSTREAM_ERRORS", "PORT", "APP_ENV", "ALLOWED_ORIGINS",
		"RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "WEATHER_RATE_LIMIT_MAX", "PROBE_INTERVAL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.MockMode() {
		t.Fatalf("expected mock mode without a key")
	}
	if cfg.UpstreamTimeout != 5*time.Second || !cfg.MaskUpstreamErrors || cfg.Port != "5002" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDevelopment() || len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected environment defaults: %+v", cfg)
	}
}

func TestFromEnvDemoKeyMeansMockMode(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", DemoAPIKey)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.MockMode() {
		t.Fatalf("demo key should select mock mode")
	}
}

func TestFromEnvProduction(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "real")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("MASK_UPSTREAM_ERRORS", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MockMode() || !cfg.IsProduction() || cfg.MaskUpstreamErrors {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.AllowedOrigins[0] != "https://yourdomain.com" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvInvalidValues(t *testing.T) {
	tests := map[string]string{
		"UPSTREAM_TIMEOUT":     "soon",
		"MASK_UPSTREAM_ERRORS": "maybe",
		"UPSTREAM_RPS":         "fast",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a , ,http://b")
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("splitList = %v", got)
	}
}
