package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/i474232898/nordic-weather/internal/api/http"
	"github.com/i474232898/nordic-weather/internal/config"
	"github.com/i474232898/nordic-weather/internal/logging"
	"github.com/i474232898/nordic-weather/internal/scheduler"
	"github.com/i474232898/nordic-weather/internal/store"
	"github.com/i474232898/nordic-weather/internal/weather"
	"github.com/i474232898/nordic-weather/internal/weather/providers"
)

func main() {
	// Load configuration (.env is optional).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	mock := store.NewMockStore()

	// Upstream provider with timeout, circuit breaker and quota limiter.
	var provider weather.Provider
	if !cfg.MockMode() {
		var p weather.Provider = providers.NewOpenWeatherProvider(providers.OpenWeatherConfig{
			APIKey:  cfg.WeatherAPIKey,
			BaseURL: cfg.WeatherBaseURL,
			Lang:    cfg.WeatherLang,
			Timeout: cfg.UpstreamTimeout,
			Client:  &http.Client{},
		})
		if cfg.UpstreamRPS > 0 {
			p = providers.NewRateLimitedProvider(p, cfg.UpstreamRPS, cfg.UpstreamBurst)
		}
		provider = p
	}

	service := weather.NewService(provider, mock, weather.Options{
		MockMode:           cfg.MockMode(),
		MaskUpstreamErrors: cfg.MaskUpstreamErrors,
	}, logger)

	if service.MockMode() {
		logger.Info("no weather API key configured; serving mock data")
	} else {
		// Probe the upstream periodically so /health reports reachability.
		sched := scheduler.New(service, cfg.ProbeInterval, logger)
		if err := sched.Start(); err != nil {
			logger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	app := httpapi.NewApp(service, httpapi.Options{
		Development:         cfg.IsDevelopment(),
		AllowedOrigins:      cfg.AllowedOrigins,
		RateLimitWindow:     cfg.RateLimitWindow,
		RateLimitMax:        cfg.RateLimitMax,
		WeatherRateLimitMax: cfg.WeatherRateLimitMax,
	}, logger)

	// Start server with graceful shutdown
	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Environment),
			zap.Bool("mock", service.MockMode()),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}
