package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCityNameAccepts(t *testing.T) {
	names := []string{
		"Stockholm",
		"Göteborg",
		"Malmö",
		"Köpenhamn",
		"Ærø",
		"Los Angeles",
		"Stratford-upon-Avon",
		"L'Aquila",
		strings.Repeat("å", 50),
	}

	for _, name := range names {
		res := ValidateCityName(name)
		if !res.Valid {
			t.Errorf("ValidateCityName(%q) rejected: %v", name, res.Errors)
		}
		if res.Err() != nil {
			t.Errorf("ValidateCityName(%q).Err() = %v, want nil", name, res.Err())
		}
	}
}

func TestValidateCityNameTrimsWithoutFolding(t *testing.T) {
	res := ValidateCityName("  malmö  ")
	if !res.Valid {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Sanitized != "malmö" {
		t.Fatalf("sanitized = %q, want %q", res.Sanitized, "malmö")
	}
}

func TestValidateCityNameRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{MsgCityRequired}},
		{name: "blank", input: "   \t ", want: []string{MsgCityRequired}},
		{name: "too long", input: strings.Repeat("a", 51), want: []string{MsgCityTooLong}},
		{name: "digits", input: "Stockholm1", want: []string{MsgCityInvalidChars}},
		{name: "markup", input: "<script>", want: []string{MsgCityInvalidChars}},
		{name: "long and invalid", input: strings.Repeat("a", 50) + "!", want: []string{MsgCityTooLong, MsgCityInvalidChars}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateCityName(tt.input)
			if res.Valid {
				t.Fatalf("expected %q to be rejected", tt.input)
			}
			if strings.Join(res.Errors, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("errors = %v, want %v", res.Errors, tt.want)
			}

			var verr *Error
			if !errors.As(res.Err(), &verr) {
				t.Fatalf("Err() = %T, want *Error", res.Err())
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon string
		want     []string
	}{
		{name: "stockholm", lat: "59.3326", lon: "18.0649"},
		{name: "bounds", lat: "-90", lon: "180"},
		{name: "lat range", lat: "90.5", lon: "0", want: []string{MsgLatitudeRange}},
		{name: "lon range", lat: "0", lon: "-180.01", want: []string{MsgLongitudeRange}},
		{name: "both range", lat: "-91", lon: "181", want: []string{MsgLatitudeRange, MsgLongitudeRange}},
		{name: "both unparseable", lat: "north", lon: "", want: []string{MsgInvalidLatitude, MsgInvalidLongitude}},
		{name: "mixed", lat: "abc", lon: "200", want: []string{MsgInvalidLatitude, MsgLongitudeRange}},
		{name: "nan", lat: "NaN", lon: "0", want: []string{MsgInvalidLatitude}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateCoordinates(tt.lat, tt.lon)
			if res.Valid != (len(tt.want) == 0) {
				t.Fatalf("valid = %v, errors = %v", res.Valid, res.Errors)
			}
			if strings.Join(res.Errors, "|") != strings.Join(tt.want, "|") {
				t.Fatalf("errors = %v, want %v", res.Errors, tt.want)
			}
		})
	}

	res := ValidateCoordinates(" 59.3326 ", "18.0649")
	if res.Coordinates.Lat != 59.3326 || res.Coordinates.Lon != 18.0649 {
		t.Fatalf("coordinates = %+v", res.Coordinates)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  <b>Malmö</b> "); got != "bMalmö/b" {
		t.Fatalf("SanitizeString = %q", got)
	}
	long := strings.Repeat("ö", 120)
	if got := SanitizeString(long); len([]rune(got)) != 100 {
		t.Fatalf("rune length = %d, want 100", len([]rune(got)))
	}
}
