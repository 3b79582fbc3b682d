package store

import (
	"time"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// DefaultCity is served whenever a requested city has no canned data.
const DefaultCity = "Stockholm"

const forecastDays = 5

// cityData holds the time-independent parts of a city's canned readings.
type cityData struct {
	snapshot weather.WeatherSnapshot
	forecast []forecastTemplate
}

type forecastTemplate struct {
	tempMin, tempMax float64
	humidity         float64
	pressure         float64
	description      string
	icon             string
	pop              float64
}

// MockStore is a fixed, read-only table of weather and forecast data keyed by
// city name. It is safe for concurrent use; lookups never fail.
type MockStore struct {
	cities map[string]cityData
	order  []string
	now    func() time.Time
}

// NewMockStore creates the canned Nordic data set using the wall clock.
func NewMockStore() *MockStore {
	return NewMockStoreWithClock(time.Now)
}

// NewMockStoreWithClock is NewMockStore with an injectable clock for the
// observation, sunrise/sunset and forecast timestamps.
func NewMockStoreWithClock(now func() time.Time) *MockStore {
	s := &MockStore{
		cities: make(map[string]cityData),
		now:    now,
	}
	for _, c := range seed() {
		s.cities[c.snapshot.CityName] = c
		s.order = append(s.order, c.snapshot.CityName)
	}
	return s
}

// Current returns the snapshot for city, or the default city's snapshot.
func (s *MockStore) Current(city string) weather.WeatherSnapshot {
	snap := s.lookup(city).snapshot

	now := s.now().Unix()
	snap.ObservedAt = now
	snap.Sunrise = now - int64(time.Hour/time.Second)
	snap.Sunset = now + int64(time.Hour/time.Second)
	return snap
}

// Forecast returns the daily forecast for city, or the default city's forecast.
func (s *MockStore) Forecast(city string) weather.Forecast {
	data := s.lookup(city)

	now := s.now()
	out := make(weather.Forecast, 0, len(data.forecast))
	for i, f := range data.forecast {
		out = append(out, weather.ForecastEntry{
			ForecastAt:               now.AddDate(0, 0, i).Unix(),
			TempMin:                  f.tempMin,
			TempMax:                  f.tempMax,
			Humidity:                 f.humidity,
			Pressure:                 f.pressure,
			ConditionDescription:     f.description,
			IconID:                   f.icon,
			PrecipitationProbability: f.pop,
		})
	}
	return out
}

// Default returns the default city's snapshot.
func (s *MockStore) Default() weather.WeatherSnapshot {
	return s.Current(DefaultCity)
}

// DefaultForecast returns the default city's forecast.
func (s *MockStore) DefaultForecast() weather.Forecast {
	return s.Forecast(DefaultCity)
}

// Cities lists every city in the table in a stable order.
func (s *MockStore) Cities() []weather.CityListing {
	out := make([]weather.CityListing, 0, len(s.order))
	for _, name := range s.order {
		snap := s.cities[name].snapshot
		out = append(out, weather.CityListing{
			Name:        snap.CityName,
			CountryCode: snap.CountryCode,
			Coordinates: snap.Coordinates,
		})
	}
	return out
}

func (s *MockStore) lookup(city string) cityData {
	if c, ok := s.cities[city]; ok {
		return c
	}
	return s.cities[DefaultCity]
}

var _ weather.MockStore = (*MockStore)(nil)
