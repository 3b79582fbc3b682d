package weather

import "context"

// Provider abstracts the upstream weather API.
// Implementations classify failures as ErrTimeout, ErrNotFound or ErrUpstream.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, city string) (WeatherSnapshot, error)
	FetchForecast(ctx context.Context, city string) (Forecast, error)
	FetchByCoordinates(ctx context.Context, coords Coordinates) (WeatherSnapshot, error)
}

// MockStore is the canned data set used in mock mode and as the fallback.
// Lookups for unknown cities return the default city's data.
type MockStore interface {
	Current(city string) WeatherSnapshot
	Forecast(city string) Forecast
	Default() WeatherSnapshot
	Cities() []CityListing
}
