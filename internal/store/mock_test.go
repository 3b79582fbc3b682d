package store

import (
	"sync"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
}

func TestMockStoreKnownCity(t *testing.T) {
	s := NewMockStoreWithClock(fixedClock)

	snap := s.Current("Malmö")
	if snap.CityName != "Malmö" || snap.CountryCode != "SE" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	now := fixedClock().Unix()
	if snap.ObservedAt != now || snap.Sunrise != now-3600 || snap.Sunset != now+3600 {
		t.Fatalf("timestamps not stamped from clock: %+v", snap)
	}
}

func TestMockStoreUnknownCityFallsBackToDefault(t *testing.T) {
	s := NewMockStoreWithClock(fixedClock)

	if got := s.Current("Nonexistent").CityName; got != DefaultCity {
		t.Fatalf("Current(Nonexistent) city = %q, want %q", got, DefaultCity)
	}
	if got := s.Default().CityName; got != DefaultCity {
		t.Fatalf("Default() city = %q", got)
	}

	want := s.DefaultForecast()
	got := s.Forecast("Nonexistent")
	if len(got) != len(want) || got[0] != want[0] {
		t.Fatalf("unknown city forecast differs from default forecast")
	}
}

func TestMockStoreForecastIsChronological(t *testing.T) {
	s := NewMockStoreWithClock(fixedClock)

	f := s.Forecast("Göteborg")
	if len(f) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(f))
	}
	for i := 1; i < len(f); i++ {
		if f[i].ForecastAt-f[i-1].ForecastAt != 86400 {
			t.Fatalf("entry %d not one day after previous", i)
		}
	}
}

func TestMockStoreCities(t *testing.T) {
	s := NewMockStore()

	cities := s.Cities()
	if len(cities) != 4 {
		t.Fatalf("expected 4 cities, got %d", len(cities))
	}
	if cities[0].Name != "Stockholm" || cities[3].Name != "Köpenhamn" || cities[3].CountryCode != "DK" {
		t.Fatalf("unexpected listing: %+v", cities)
	}
}

func TestMockStoreConcurrentReads(t *testing.T) {
	s := NewMockStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Current("Stockholm")
			_ = s.Forecast("Malmö")
			_ = s.Cities()
		}()
	}
	wg.Wait()
}
