package weather

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/nordic-weather/internal/validation"
)

// Options configures source selection and the fallback policy.
type Options struct {
	// MockMode serves every request from the mock store without touching the network.
	MockMode bool
	// MaskUpstreamErrors substitutes mock data for upstream failures other
	// than timeouts and not-found. When false those failures surface as errors.
	MaskUpstreamErrors bool
}

// UpstreamStatus is the result of the most recent provider probe.
type UpstreamStatus struct {
	Reachable bool      `json:"reachable"`
	CheckedAt time.Time `json:"checkedAt"`
	LastError string    `json:"lastError,omitempty"`
}

// Service validates requests and picks between the provider and the mock store.
type Service struct {
	provider Provider
	mock     MockStore
	opts     Options
	logger   *zap.Logger

	status atomic.Pointer[UpstreamStatus]
}

// NewService creates a new Service. provider may be nil in mock mode.
func NewService(provider Provider, mock MockStore, opts Options, logger *zap.Logger) *Service {
	if provider == nil {
		opts.MockMode = true
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		mock:     mock,
		opts:     opts,
		logger:   logger,
	}
}

// MockMode reports whether the service bypasses the upstream provider.
func (s *Service) MockMode() bool {
	return s.opts.MockMode
}

// Current returns the current conditions for a city.
func (s *Service) Current(ctx context.Context, city string) (WeatherSnapshot, Source, error) {
	res := validation.ValidateCityName(city)
	if err := res.Err(); err != nil {
		return WeatherSnapshot{}, "", err
	}
	name := res.Sanitized

	s.logger.Info("weather request", zap.String("city", name))

	if s.opts.MockMode {
		return s.mock.Current(name), SourceMock, nil
	}

	snap, err := s.provider.FetchCurrent(ctx, name)
	if err == nil {
		return snap, SourceLive, nil
	}
	if !s.canFallback("current", err, true) {
		return WeatherSnapshot{}, "", err
	}
	return s.mock.Current(name), SourceFallback, nil
}

// Forecast returns the daily forecast for a city.
func (s *Service) Forecast(ctx context.Context, city string) (Forecast, Source, error) {
	res := validation.ValidateCityName(city)
	if err := res.Err(); err != nil {
		return nil, "", err
	}
	name := res.Sanitized

	s.logger.Info("forecast request", zap.String("city", name))

	if s.opts.MockMode {
		return s.mock.Forecast(name), SourceMock, nil
	}

	forecast, err := s.provider.FetchForecast(ctx, name)
	if err == nil {
		return forecast, SourceLive, nil
	}
	if !s.canFallback("forecast", err, true) {
		return nil, "", err
	}
	return s.mock.Forecast(name), SourceFallback, nil
}

// ByCoordinates returns the current conditions at a position.
// Unlike the city lookups a provider not-found is treated as a plain upstream failure.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon string) (WeatherSnapshot, Source, error) {
	res := validation.ValidateCoordinates(lat, lon)
	if err := res.Err(); err != nil {
		return WeatherSnapshot{}, "", err
	}
	coords := res.Coordinates

	s.logger.Info("coordinates request", zap.Float64("lat", coords.Lat), zap.Float64("lon", coords.Lon))

	if s.opts.MockMode {
		return s.mock.Default(), SourceMock, nil
	}

	snap, err := s.provider.FetchByCoordinates(ctx, coords)
	if err == nil {
		return snap, SourceLive, nil
	}
	if !s.canFallback("coordinates", err, false) {
		return WeatherSnapshot{}, "", err
	}
	return s.mock.Default(), SourceFallback, nil
}

// Cities lists the cities known to the mock store.
func (s *Service) Cities() []CityListing {
	return s.mock.Cities()
}

// canFallback reports whether err may be masked with mock data.
// Timeouts always propagate; not-found propagates when notFoundIsFinal.
func (s *Service) canFallback(op string, err error, notFoundIsFinal bool) bool {
	s.logger.Warn("upstream call failed", zap.String("op", op), zap.Error(err))

	switch {
	case errors.Is(err, ErrTimeout):
		return false
	case notFoundIsFinal && errors.Is(err, ErrNotFound):
		return false
	case !s.opts.MaskUpstreamErrors:
		return false
	}

	s.logger.Info("serving mock data in place of upstream response", zap.String("op", op))
	return true
}

// Probe issues one lookup for the default city and records whether the
// provider answered. Not-found still counts as reachable.
func (s *Service) Probe(ctx context.Context) UpstreamStatus {
	status := UpstreamStatus{CheckedAt: time.Now().UTC()}
	if s.opts.MockMode {
		return status
	}

	_, err := s.provider.FetchCurrent(ctx, s.mock.Default().CityName)
	status.Reachable = err == nil || errors.Is(err, ErrNotFound)
	if err != nil {
		status.LastError = err.Error()
	}
	s.status.Store(&status)
	return status
}

// Status returns the last probe result, or nil if no probe has run.
func (s *Service) Status() *UpstreamStatus {
	return s.status.Load()
}
