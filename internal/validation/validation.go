// Package validation holds the input rules shared by the HTTP API and the
// client gateway, so both sides reject the same input with the same messages.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MsgCityRequired     = "city name required"
	MsgCityTooLong      = "city name must be at most 50 characters"
	MsgCityInvalidChars = "city name may only contain letters, spaces, hyphens and apostrophes"

	MsgInvalidLatitude  = "invalid latitude"
	MsgInvalidLongitude = "invalid longitude"
	MsgLatitudeRange    = "latitude must be between -90 and 90"
	MsgLongitudeRange   = "longitude must be between -180 and 180"

	// MaxCityNameLength is counted in runes, not bytes.
	MaxCityNameLength = 50

	maxSanitizedLength = 100
)

var cityNamePattern = regexp.MustCompile(`^[a-zA-ZåäöÅÄÖæøÆØ\s\-']+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("cityname", func(fl validator.FieldLevel) bool {
		return cityNamePattern.MatchString(fl.Field().String())
	})
	return v
}

type rule struct {
	tag string
	msg string
}

// Each rule is evaluated on its own so that every failing rule reports.
var cityRules = []rule{
	{tag: "max=50", msg: MsgCityTooLong},
	{tag: "cityname", msg: MsgCityInvalidChars},
}

// Coordinates is a parsed latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CityResult is the outcome of ValidateCityName.
type CityResult struct {
	Valid     bool
	Errors    []string
	Sanitized string
}

// Err returns nil for a valid result and an *Error otherwise.
func (r CityResult) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Messages: r.Errors}
}

// CoordinatesResult is the outcome of ValidateCoordinates.
type CoordinatesResult struct {
	Valid       bool
	Errors      []string
	Coordinates Coordinates
}

// Err returns nil for a valid result and an *Error otherwise.
func (r CoordinatesResult) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Messages: r.Errors}
}

// ValidateCityName trims raw and checks it against the city name rules.
// The sanitized value is the trimmed input; case is preserved.
func ValidateCityName(raw string) CityResult {
	name := strings.TrimSpace(raw)
	if name == "" {
		return CityResult{Errors: []string{MsgCityRequired}}
	}

	var errs []string
	for _, r := range cityRules {
		if err := validate.Var(name, r.tag); err != nil {
			errs = append(errs, r.msg)
		}
	}

	return CityResult{
		Valid:     len(errs) == 0,
		Errors:    errs,
		Sanitized: name,
	}
}

// ValidateCoordinates parses and range-checks a latitude/longitude pair.
// Both axes are always checked.
func ValidateCoordinates(lat, lon string) CoordinatesResult {
	var errs []string

	latitude, ok := parseFloat(lat)
	switch {
	case !ok:
		errs = append(errs, MsgInvalidLatitude)
	case validate.Var(latitude, "gte=-90,lte=90") != nil:
		errs = append(errs, MsgLatitudeRange)
	}

	longitude, ok := parseFloat(lon)
	switch {
	case !ok:
		errs = append(errs, MsgInvalidLongitude)
	case validate.Var(longitude, "gte=-180,lte=180") != nil:
		errs = append(errs, MsgLongitudeRange)
	}

	return CoordinatesResult{
		Valid:       len(errs) == 0,
		Errors:      errs,
		Coordinates: Coordinates{Lat: latitude, Lon: longitude},
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SanitizeString trims s, removes angle brackets and caps it at 100 runes.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if utf8.RuneCountInString(s) > maxSanitizedLength {
		s = string([]rune(s)[:maxSanitizedLength])
	}
	return s
}
