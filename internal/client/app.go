package client

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/i474232898/nordic-weather/internal/client/state"
	"github.com/i474232898/nordic-weather/internal/validation"
	"github.com/i474232898/nordic-weather/internal/weather"
)

const (
	searchesPerMinute    = 5
	favoritesConcurrency = 4
)

// ErrSearchLimited is returned by Search when the search budget is spent.
var ErrSearchLimited = errors.New("too many searches, please wait a moment")

// WeatherAPI is the subset of Gateway the App needs.
type WeatherAPI interface {
	CurrentWeather(ctx context.Context, city string) (weather.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) (weather.Forecast, error)
}

// App ties the gateway to the client state.
type App struct {
	api    WeatherAPI
	store  *state.Store
	search *rate.Limiter
	logger *zap.Logger
}

func NewApp(api WeatherAPI, store *state.Store, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		api:    api,
		store:  store,
		search: rate.NewLimiter(rate.Every(time.Minute/searchesPerMinute), searchesPerMinute),
		logger: logger,
	}
}

// State returns a copy of the current client state.
func (a *App) State() state.State {
	return a.store.State()
}

// GetCurrentWeather loads city into the state and records it in the search
// history. Nothing happens if the same city was the last one loaded, compared
// after trimming and ignoring case.
func (a *App) GetCurrentWeather(ctx context.Context, city string) error {
	name := normalizeCity(city)

	if cur := a.store.State(); cur.CurrentWeather != nil && strings.EqualFold(cur.LoadedCity, name) {
		return nil
	}

	_ = a.store.Dispatch(state.SetLoading{Loading: true})

	snap, err := a.api.CurrentWeather(ctx, name)
	if err != nil {
		a.logger.Warn("current weather failed", zap.String("city", city), zap.Error(err))
		_ = a.store.Dispatch(state.SetError{Message: err.Error()})
		return err
	}

	_ = a.store.Dispatch(state.SetCurrentWeather{Weather: snap, City: name})
	return a.store.Dispatch(state.AddToHistory{City: name})
}

// normalizeCity returns the validated form of city, or city itself when it
// does not validate so the gateway can report why.
func normalizeCity(city string) string {
	if res := validation.ValidateCityName(city); res.Valid {
		return res.Sanitized
	}
	return city
}

// GetForecast loads the forecast for city into the state.
func (a *App) GetForecast(ctx context.Context, city string) error {
	forecast, err := a.api.Forecast(ctx, city)
	if err != nil {
		a.logger.Warn("forecast failed", zap.String("city", city), zap.Error(err))
		_ = a.store.Dispatch(state.SetError{Message: err.Error()})
		return err
	}
	return a.store.Dispatch(state.SetForecast{Forecast: forecast})
}

// Search is GetCurrentWeather for user-initiated lookups, limited to a few per minute.
func (a *App) Search(ctx context.Context, city string) error {
	if !a.search.Allow() {
		_ = a.store.Dispatch(state.SetError{Message: ErrSearchLimited.Error()})
		return ErrSearchLimited
	}
	return a.GetCurrentWeather(ctx, city)
}

// LoadFavorites fetches every favorite concurrently. Lookups that fail are
// left out; the rest keep favorites order.
func (a *App) LoadFavorites(ctx context.Context) []weather.WeatherSnapshot {
	favorites := a.store.State().Favorites
	results := make([]*weather.WeatherSnapshot, len(favorites))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(favoritesConcurrency)
	for i, city := range favorites {
		i, city := i, city
		g.Go(func() error {
			snap, err := a.api.CurrentWeather(gctx, city)
			if err != nil {
				a.logger.Warn("favorite lookup failed", zap.String("city", city), zap.Error(err))
				return nil
			}
			results[i] = &snap
			return nil
		})
	}
	_ = g.Wait()

	out := make([]weather.WeatherSnapshot, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (a *App) AddFavorite(city string) error {
	return a.store.Dispatch(state.AddFavorite{City: city})
}

func (a *App) RemoveFavorite(city string) error {
	return a.store.Dispatch(state.RemoveFavorite{City: city})
}
