// Package state holds the client-side weather state: the loaded snapshot and
// forecast, favorites and search history, plus their local persistence.
package state

import (
	"slices"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// MaxHistory is the number of recent searches kept.
const MaxHistory = 10

// State is the complete client state. Values returned by Store are copies.
type State struct {
	CurrentWeather *weather.WeatherSnapshot
	// LoadedCity is the city name CurrentWeather was requested for. It can
	// differ from CurrentWeather.CityName when the server substitutes data.
	LoadedCity     string
	Forecast       weather.Forecast
	Favorites      []string
	SearchHistory  []string
	Loading        bool
	Error          string
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

type (
	SetLoading struct{ Loading bool }
	// SetError records a failure and ends loading.
	SetError    struct{ Message string }
	SetForecast struct{ Forecast weather.Forecast }
	// AddFavorite appends City unless it is already a favorite.
	AddFavorite    struct{ City string }
	RemoveFavorite struct{ City string }
	// AddToHistory moves City to the front of the history, keeping MaxHistory entries.
	AddToHistory struct{ City string }
	// SetCurrentWeather stores a snapshot requested as City and clears loading
	// and error. An empty City falls back to the snapshot's own name.
	SetCurrentWeather struct {
		Weather weather.WeatherSnapshot
		City    string
	}
)

func (SetLoading) isAction()        {}
func (SetError) isAction()          {}
func (SetCurrentWeather) isAction() {}
func (SetForecast) isAction()       {}
func (AddFavorite) isAction()       {}
func (RemoveFavorite) isAction()    {}
func (AddToHistory) isAction()      {}

// Reduce returns the state that results from applying a to s. It never
// mutates s; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		s.Loading = a.Loading
	case SetError:
		s.Error = a.Message
		s.Loading = false
	case SetCurrentWeather:
		w := a.Weather
		s.CurrentWeather = &w
		s.LoadedCity = a.City
		if s.LoadedCity == "" {
			s.LoadedCity = w.CityName
		}
		s.Loading = false
		s.Error = ""
	case SetForecast:
		s.Forecast = slices.Clone(a.Forecast)
	case AddFavorite:
		if !slices.Contains(s.Favorites, a.City) {
			s.Favorites = append(slices.Clip(s.Favorites), a.City)
		}
	case RemoveFavorite:
		s.Favorites = without(s.Favorites, a.City)
	case AddToHistory:
		history := append([]string{a.City}, without(s.SearchHistory, a.City)...)
		if len(history) > MaxHistory {
			history = history[:MaxHistory]
		}
		s.SearchHistory = history
	}
	return s
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
