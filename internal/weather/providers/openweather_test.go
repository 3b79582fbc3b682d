package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/nordic-weather/internal/weather"
)

const currentBody = `{
  "coord": {"lon": 18.0649, "lat": 59.3326},
  "weather": [{"id": 800, "main": "Clear", "description": "klar himmel", "icon": "01d"}],
  "main": {"temp": 15, "feels_like": 14, "temp_min": 12, "temp_max": 18, "pressure": 1013, "humidity": 65},
  "visibility": 10000,
  "wind": {"speed": 3.5, "deg": 230},
  "dt": 1760616000,
  "sys": {"country": "SE", "sunrise": 1760592000, "sunset": 1760630000},
  "name": "Stockholm"
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenWeatherProvider(OpenWeatherConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: timeout,
		Client:  srv.Client(),
	})
}

func TestFetchCurrentNormalizesPayload(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Stockholm" || q.Get("appid") != "test-key" || q.Get("units") != "metric" || q.Get("lang") != "sv" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, currentBody)
	}, time.Second)

	snap, err := p.FetchCurrent(context.Background(), "Stockholm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.CityName != "Stockholm" || snap.CountryCode != "SE" || snap.ConditionCode != 800 || snap.IconID != "01d" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Coordinates.Lat != 59.3326 || snap.WindDirectionDeg != 230 || snap.Sunset != 1760630000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestFetchByCoordinatesSendsLatLon(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "57.7089" || q.Get("lon") != "11.9746" || q.Has("q") {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, currentBody)
	}, time.Second)

	if _, err := p.FetchByCoordinates(context.Background(), weather.Coordinates{Lat: 57.7089, Lon: 11.9746}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "not found", status: http.StatusNotFound, want: weather.ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, want: weather.ErrUpstream},
		{name: "unauthorized", status: http.StatusUnauthorized, want: weather.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"cod":"x","message":"nope"}`, tt.status)
			}, time.Second)

			_, err := p.FetchCurrent(context.Background(), "Atlantis")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetchTimesOut(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, 50*time.Millisecond)

	_, err := p.FetchCurrent(context.Background(), "Stockholm")
	if !errors.Is(err, weather.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestFetchMalformedBodyIsUpstreamError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":`)
	}, time.Second)

	_, err := p.FetchCurrent(context.Background(), "Stockholm")
	if !errors.Is(err, weather.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestCircuitBreakerOpensOnRepeatedFailures(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, time.Second)

	for i := 0; i < 6; i++ {
		_, _ = p.FetchCurrent(context.Background(), "Stockholm")
	}
	before := hits.Load()

	_, err := p.FetchCurrent(context.Background(), "Stockholm")
	if !errors.Is(err, weather.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
	if hits.Load() != before {
		t.Fatalf("open breaker still reached the provider")
	}
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, time.Second)

	for i := 0; i < 10; i++ {
		if _, err := p.FetchCurrent(context.Background(), "Atlantis"); !errors.Is(err, weather.ErrNotFound) {
			t.Fatalf("call %d: err = %v", i, err)
		}
	}
	if hits.Load() != 10 {
		t.Fatalf("hits = %d, want 10", hits.Load())
	}
}

func TestFetchForecastReducesToDailyEntries(t *testing.T) {
	// Six days of 3-hourly slots starting at midnight UTC.
	start := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	body := `{"city":{"timezone":0},"list":[`
	for i := 0; i < 48; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		if i > 0 {
			body += ","
		}
		icon := "04d"
		if ts.Hour() == 12 {
			icon = "01d"
		}
		body += fmt.Sprintf(`{"dt":%d,"main":{"temp_min":%d,"temp_max":%d,"pressure":1000,"humidity":50},"weather":[{"id":800,"description":"slot","icon":%q}],"pop":%.1f}`,
			ts.Unix(), 5+i%8, 10+i%8, icon, float64(i%8)/10)
	}
	body += `]}`

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, body)
	}, time.Second)

	f, err := p.FetchForecast(context.Background(), "Stockholm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f) != 5 {
		t.Fatalf("expected 5 daily entries, got %d", len(f))
	}
	for i, e := range f {
		at := time.Unix(e.ForecastAt, 0).UTC()
		if at.Hour() != 12 || e.IconID != "01d" {
			t.Errorf("entry %d: picked slot %s icon %s, want midday", i, at, e.IconID)
		}
		if e.TempMin != 5 || e.TempMax != 17 || e.PrecipitationProbability != 0.7 {
			t.Errorf("entry %d: min/max/pop = %v/%v/%v", i, e.TempMin, e.TempMax, e.PrecipitationProbability)
		}
		if i > 0 && e.ForecastAt <= f[i-1].ForecastAt {
			t.Errorf("entries not chronological at %d", i)
		}
	}
}
