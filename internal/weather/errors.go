package weather

import "errors"

var (
	// ErrTimeout is returned when the upstream call exceeds its time bound.
	ErrTimeout = errors.New("upstream request timed out")
	// ErrNotFound is returned when the provider reports no such city.
	ErrNotFound = errors.New("city not found")
	// ErrUpstream covers every other provider failure.
	ErrUpstream = errors.New("upstream provider failure")
)
