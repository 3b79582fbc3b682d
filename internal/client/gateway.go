// Package client talks to the weather API and keeps the client-side state.
package client

import (
	"context"
	"encoding/json"
	"maps"
	"net/url"
	"strconv"
	"time"

	"resty.dev/v3"

	"github.com/i474232898/nordic-weather/internal/validation"
	"github.com/i474232898/nordic-weather/internal/weather"
)

const (
	// DefaultBaseURL is the API root of a locally running server.
	DefaultBaseURL = "http://localhost:5002/api"
	DefaultTimeout = 10 * time.Second
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string                  `json:"status"`
	Message   string                  `json:"message"`
	Timestamp string                  `json:"timestamp"`
	Mode      string                  `json:"mode"`
	Upstream  *weather.UpstreamStatus `json:"upstream,omitempty"`
}

// Gateway is a thin wrapper around resty.Client for the weather API.
// Inputs are validated locally before any request is made.
type Gateway struct {
	client  *resty.Client
	timeout time.Duration
	now     func() time.Time
}

// NewGateway creates a Gateway for the API rooted at baseURL.
func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
		timeout: timeout,
		now:     time.Now,
	}
}

// CurrentWeather fetches the current conditions for city.
func (g *Gateway) CurrentWeather(ctx context.Context, city string) (weather.WeatherSnapshot, error) {
	res := validation.ValidateCityName(city)
	if err := res.Err(); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var snap weather.WeatherSnapshot
	if err := g.get(ctx, "/weather/current/"+url.PathEscape(res.Sanitized), nil, &snap); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return snap, nil
}

// Forecast fetches the daily forecast for city.
func (g *Gateway) Forecast(ctx context.Context, city string) (weather.Forecast, error) {
	res := validation.ValidateCityName(city)
	if err := res.Err(); err != nil {
		return nil, err
	}

	var forecast weather.Forecast
	if err := g.get(ctx, "/weather/forecast/"+url.PathEscape(res.Sanitized), nil, &forecast); err != nil {
		return nil, err
	}
	return forecast, nil
}

// ByCoordinates fetches the current conditions at lat/lon.
func (g *Gateway) ByCoordinates(ctx context.Context, lat, lon string) (weather.WeatherSnapshot, error) {
	res := validation.ValidateCoordinates(lat, lon)
	if err := res.Err(); err != nil {
		return weather.WeatherSnapshot{}, err
	}

	query := map[string]string{
		"lat": strconv.FormatFloat(res.Coordinates.Lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(res.Coordinates.Lon, 'f', -1, 64),
	}
	var snap weather.WeatherSnapshot
	if err := g.get(ctx, "/weather/coordinates", query, &snap); err != nil {
		return weather.WeatherSnapshot{}, err
	}
	return snap, nil
}

// Cities lists the cities the server has canned data for.
func (g *Gateway) Cities(ctx context.Context) ([]weather.CityListing, error) {
	var body struct {
		Cities []weather.CityListing `json:"cities"`
	}
	if err := g.get(ctx, "/weather/cities", nil, &body); err != nil {
		return nil, err
	}
	return body.Cities, nil
}

func (g *Gateway) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := g.get(ctx, "/health", nil, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// get issues a GET with a cache-busting _t parameter and decodes the JSON body into out.
func (g *Gateway) get(ctx context.Context, path string, query map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := map[string]string{"_t": strconv.FormatInt(g.now().UnixMilli(), 10)}
	maps.Copy(params, query)

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return &Error{Kind: KindNoResponse, Message: msgNoResponse, Err: err}
	}
	if resp.IsError() {
		return serverError(resp.StatusCode(), resp.Bytes())
	}

	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &Error{Kind: KindUnexpected, Message: msgUnexpected, Err: err}
	}
	return nil
}
