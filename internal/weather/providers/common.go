package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 5 * time.Second

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider returned status %d", e.Code)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

func isNotFound(err error) bool {
	var se *httpStatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// newCircuitBreaker trips after consecutive upstream failures. A not-found
// answer means the provider is healthy and does not count against it.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || isNotFound(err)
		},
	})
}

// getJSON issues a single GET bounded by timeout and decodes the body into out.
// There are no retries; the caller owns the fallback policy.
func getJSON(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	timeout time.Duration,
	rawURL string,
	out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})

	return classify(ctx, err)
}

// classify maps transport and status failures onto the weather error sentinels.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit breaker: %v", weather.ErrUpstream, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", weather.ErrTimeout, err)
	}

	if isNotFound(err) {
		return fmt.Errorf("%w: %v", weather.ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", weather.ErrUpstream, err)
}

func buildURL(base, path string, values url.Values) string {
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(base, "/"), strings.TrimLeft(path, "/"), values.Encode())
}
