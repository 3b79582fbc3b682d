package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// RateLimitedProvider wraps a Provider with a token bucket so the upstream
// quota is respected.
type RateLimitedProvider struct {
	provider weather.Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider creates a rate limited provider.
// rps may be fractional; burst is the maximum number of back-to-back calls.
func NewRateLimitedProvider(provider weather.Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [rate limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

func (r *RateLimitedProvider) FetchCurrent(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	if err := r.wait(ctx); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return r.provider.FetchCurrent(ctx, city)
}

func (r *RateLimitedProvider) FetchForecast(ctx context.Context, city string) (weather.Forecast, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.FetchForecast(ctx, city)
}

func (r *RateLimitedProvider) FetchByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.WeatherSnapshot, error) {
	if err := r.wait(ctx); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return r.provider.FetchByCoordinates(ctx, coords)
}

// A canceled wait never reached the provider, so it is reported as a
// generic upstream failure and stays eligible for the mock fallback.
func (r *RateLimitedProvider) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit wait canceled: %v", weather.ErrUpstream, err)
	}
	return nil
}

var _ weather.Provider = (*RateLimitedProvider)(nil)
