package store

import "github.com/i474232898/nordic-weather/internal/weather"

func seed() []cityData {
	return []cityData{
		{
			snapshot: weather.WeatherSnapshot{
				CityName:             "Stockholm",
				CountryCode:          "SE",
				Coordinates:          weather.Coordinates{Lat: 59.3326, Lon: 18.0649},
				Temperature:          15,
				FeelsLike:            14,
				TempMin:              12,
				TempMax:              18,
				Humidity:             65,
				Pressure:             1013,
				Visibility:           10000,
				WindSpeed:            3.5,
				WindDirectionDeg:     230,
				ConditionCode:        800,
				ConditionDescription: "klar himmel",
				IconID:               "01d",
			},
			forecast: dailyForecast(12, 18, 65, 1013, "klar himmel", "01d", 0.1),
		},
		{
			snapshot: weather.WeatherSnapshot{
				CityName:             "Göteborg",
				CountryCode:          "SE",
				Coordinates:          weather.Coordinates{Lat: 57.7089, Lon: 11.9746},
				Temperature:          13,
				FeelsLike:            12,
				TempMin:              10,
				TempMax:              16,
				Humidity:             70,
				Pressure:             1015,
				Visibility:           10000,
				WindSpeed:            4.2,
				WindDirectionDeg:     250,
				ConditionCode:        801,
				ConditionDescription: "några moln",
				IconID:               "02d",
			},
			forecast: dailyForecast(10, 16, 70, 1015, "några moln", "02d", 0.2),
		},
		{
			snapshot: weather.WeatherSnapshot{
				CityName:             "Malmö",
				CountryCode:          "SE",
				Coordinates:          weather.Coordinates{Lat: 55.6059, Lon: 13.0007},
				Temperature:          11,
				FeelsLike:            10,
				TempMin:              9,
				TempMax:              14,
				Humidity:             85,
				Pressure:             1010,
				Visibility:           8000,
				WindSpeed:            5.1,
				WindDirectionDeg:     180,
				ConditionCode:        500,
				ConditionDescription: "lätt regn",
				IconID:               "10d",
			},
			forecast: dailyForecast(9, 14, 85, 1010, "lätt regn", "10d", 0.6),
		},
		{
			snapshot: weather.WeatherSnapshot{
				CityName:             "Köpenhamn",
				CountryCode:          "DK",
				Coordinates:          weather.Coordinates{Lat: 55.6761, Lon: 12.5683},
				Temperature:          12,
				FeelsLike:            11,
				TempMin:              10,
				TempMax:              15,
				Humidity:             78,
				Pressure:             1012,
				Visibility:           9000,
				WindSpeed:            6.0,
				WindDirectionDeg:     240,
				ConditionCode:        803,
				ConditionDescription: "mulet",
				IconID:               "04d",
			},
			forecast: dailyForecast(10, 15, 78, 1012, "mulet", "04d", 0.3),
		},
	}
}

// dailyForecast spreads a base reading over the forecast days with a small
// deterministic drift so consecutive days differ.
func dailyForecast(tempMin, tempMax, humidity, pressure float64, desc, icon string, pop float64) []forecastTemplate {
	drift := []float64{0, 1, 2, 1, -1}
	out := make([]forecastTemplate, 0, forecastDays)
	for i := 0; i < forecastDays; i++ {
		out = append(out, forecastTemplate{
			tempMin:     tempMin + drift[i],
			tempMax:     tempMax + drift[i],
			humidity:    humidity,
			pressure:    pressure,
			description: desc,
			icon:        icon,
			pop:         pop,
		})
	}
	return out
}
