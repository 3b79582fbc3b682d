package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

const forecastDays = 5

// OpenWeatherConfig configures an OpenWeatherProvider.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string
	Lang    string
	Timeout time.Duration
	Client  *http.Client
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	timeout time.Duration
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(cfg OpenWeatherConfig) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenWeatherBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = "sv"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		lang:    cfg.Lang,
		timeout: cfg.Timeout,
		client:  cfg.Client,
		circuit: newCircuitBreaker("openweathermap"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	values := p.values()
	values.Set("q", city)

	var payload currentPayload
	if err := getJSON(ctx, p.client, p.circuit, p.timeout, buildURL(p.baseURL, "weather", values), &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return payload.toSnapshot(), nil
}

func (p *OpenWeatherProvider) FetchByCoordinates(ctx context.Context, coords weather.Coordinates) (weather.WeatherSnapshot, error) {
	values := p.values()
	values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))

	var payload currentPayload
	if err := getJSON(ctx, p.client, p.circuit, p.timeout, buildURL(p.baseURL, "weather", values), &payload); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return payload.toSnapshot(), nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, city string) (weather.Forecast, error) {
	values := p.values()
	values.Set("q", city)

	var payload forecastPayload
	if err := getJSON(ctx, p.client, p.circuit, p.timeout, buildURL(p.baseURL, "forecast", values), &payload); err != nil {
		return nil, err
	}
	return payload.toDaily(forecastDays), nil
}

func (p *OpenWeatherProvider) values() url.Values {
	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("lang", p.lang)
	return values
}

type conditionPayload struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentPayload struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []conditionPayload `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

func (p currentPayload) toSnapshot() weather.WeatherSnapshot {
	cond := firstCondition(p.Weather)
	return weather.WeatherSnapshot{
		CityName:             p.Name,
		CountryCode:          p.Sys.Country,
		Coordinates:          weather.Coordinates{Lat: p.Coord.Lat, Lon: p.Coord.Lon},
		Temperature:          p.Main.Temp,
		FeelsLike:            p.Main.FeelsLike,
		TempMin:              p.Main.TempMin,
		TempMax:              p.Main.TempMax,
		Humidity:             p.Main.Humidity,
		Pressure:             p.Main.Pressure,
		Visibility:           p.Visibility,
		WindSpeed:            p.Wind.Speed,
		WindDirectionDeg:     p.Wind.Deg,
		ConditionCode:        cond.ID,
		ConditionDescription: cond.Description,
		IconID:               cond.Icon,
		ObservedAt:           p.Dt,
		Sunrise:              p.Sys.Sunrise,
		Sunset:               p.Sys.Sunset,
	}
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Pressure float64 `json:"pressure"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []conditionPayload `json:"weather"`
		Pop     float64            `json:"pop"`
	} `json:"list"`
	City struct {
		Timezone int64 `json:"timezone"`
	} `json:"city"`
}

// toDaily reduces the 3-hourly list to one entry per local calendar day.
// Description, icon, humidity and pressure come from the midday slot (11-14h)
// when there is one, else the day's first slot; min/max and precipitation
// probability span the whole day.
func (p forecastPayload) toDaily(days int) weather.Forecast {
	type day struct {
		entry  weather.ForecastEntry
		midday bool
	}

	var (
		order  []string
		byDate = make(map[string]*day)
	)

	for _, item := range p.List {
		local := time.Unix(item.Dt+p.City.Timezone, 0).UTC()
		key := local.Format("2006-01-02")
		isMidday := local.Hour() >= 11 && local.Hour() <= 14
		cond := firstCondition(item.Weather)

		d, ok := byDate[key]
		if !ok {
			if len(order) == days {
				break
			}
			order = append(order, key)
			d = &day{entry: weather.ForecastEntry{
				TempMin: item.Main.TempMin,
				TempMax: item.Main.TempMax,
			}}
			byDate[key] = d
		}

		if !ok || (isMidday && !d.midday) {
			d.entry.ForecastAt = item.Dt
			d.entry.Humidity = item.Main.Humidity
			d.entry.Pressure = item.Main.Pressure
			d.entry.ConditionDescription = cond.Description
			d.entry.IconID = cond.Icon
			d.midday = isMidday
		}

		if item.Main.TempMin < d.entry.TempMin {
			d.entry.TempMin = item.Main.TempMin
		}
		if item.Main.TempMax > d.entry.TempMax {
			d.entry.TempMax = item.Main.TempMax
		}
		if item.Pop > d.entry.PrecipitationProbability {
			d.entry.PrecipitationProbability = item.Pop
		}
	}

	out := make(weather.Forecast, 0, len(order))
	for _, key := range order {
		out = append(out, byDate[key].entry)
	}
	return out
}

func firstCondition(items []conditionPayload) conditionPayload {
	if len(items) == 0 {
		return conditionPayload{}
	}
	return items[0]
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)
