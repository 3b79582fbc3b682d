package weather

import "github.com/i474232898/nordic-weather/internal/validation"

// Coordinates is a geographic position in decimal degrees.
type Coordinates = validation.Coordinates

// WeatherSnapshot is a single point-in-time reading for one location.
// Values are in metric units.
type WeatherSnapshot struct {
	CityName             string      `json:"cityName"`
	CountryCode          string      `json:"countryCode"`
	Coordinates          Coordinates `json:"coordinates"`
	Temperature          float64     `json:"temperature"`
	FeelsLike            float64     `json:"feelsLike"`
	TempMin              float64     `json:"tempMin"`
	TempMax              float64     `json:"tempMax"`
	Humidity             float64     `json:"humidity"`
	Pressure             float64     `json:"pressure"`
	Visibility           float64     `json:"visibility"`
	WindSpeed            float64     `json:"windSpeed"`
	WindDirectionDeg     float64     `json:"windDirectionDeg"`
	ConditionCode        int         `json:"conditionCode"`
	ConditionDescription string      `json:"conditionDescription"`
	IconID               string      `json:"iconId"`
	ObservedAt           int64       `json:"observedAtEpochSeconds"`
	Sunrise              int64       `json:"sunriseEpoch"`
	Sunset               int64       `json:"sunsetEpoch"`
}

// ForecastEntry is the predicted conditions for one future time bucket.
type ForecastEntry struct {
	ForecastAt               int64   `json:"forecastEpochSeconds"`
	TempMin                  float64 `json:"tempMin"`
	TempMax                  float64 `json:"tempMax"`
	Humidity                 float64 `json:"humidity"`
	Pressure                 float64 `json:"pressure"`
	ConditionDescription     string  `json:"conditionDescription"`
	IconID                   string  `json:"iconId"`
	PrecipitationProbability float64 `json:"precipitationProbability"`
}

// Forecast entries are ordered by ForecastAt ascending.
type Forecast []ForecastEntry

// CityListing is static reference data for a selectable city.
type CityListing struct {
	Name        string      `json:"name"`
	CountryCode string      `json:"countryCode"`
	Coordinates Coordinates `json:"coordinates"`
}

// Source tells where the data in a response came from.
type Source string

const (
	// SourceLive is data returned by the upstream provider.
	SourceLive Source = "live"
	// SourceMock is canned data served because no credential is configured.
	SourceMock Source = "mock"
	// SourceFallback is canned data substituted for a failed upstream call.
	SourceFallback Source = "fallback"
)
