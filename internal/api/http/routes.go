package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/nordic-weather/internal/validation"
	"github.com/i474232898/nordic-weather/internal/weather"
)

// HeaderWeatherSource tells whether a response is live, mock or fallback data.
const HeaderWeatherSource = "X-Weather-Source"

type handler struct {
	service *weather.Service
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, opts Options) {
	h := &handler{service: service}

	app.Get("/health", h.health)

	api := app.Group("/api")
	api.Get("/health", h.health)

	w := api.Group("/weather", rateLimit(opts.WeatherRateLimitMax, opts.RateLimitWindow,
		"too many weather requests, please try again later"))
	w.Get("/current/:city", h.current)
	w.Get("/forecast/:city", h.forecast)
	w.Get("/coordinates", h.coordinates)
	w.Get("/cities", h.cities)
}

func (h *handler) current(c *fiber.Ctx) error {
	raw := c.Params("city")

	snap, src, err := h.service.Current(c.UserContext(), validation.SanitizeString(raw))
	if err != nil {
		return cityError(err, raw, "weather data could not be fetched in time")
	}

	c.Set(HeaderWeatherSource, string(src))
	return c.JSON(snap)
}

func (h *handler) forecast(c *fiber.Ctx) error {
	raw := c.Params("city")

	forecast, src, err := h.service.Forecast(c.UserContext(), validation.SanitizeString(raw))
	if err != nil {
		return cityError(err, raw, "forecast data could not be fetched in time")
	}

	c.Set(HeaderWeatherSource, string(src))
	return c.JSON(forecast)
}

func (h *handler) coordinates(c *fiber.Ctx) error {
	snap, src, err := h.service.ByCoordinates(c.UserContext(), c.Query("lat"), c.Query("lon"))
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			return badRequest(verr)
		case errors.Is(err, weather.ErrTimeout):
			return timeoutError("weather data could not be fetched in time")
		case errors.Is(err, weather.ErrNotFound), errors.Is(err, weather.ErrUpstream):
			return providerUnavailable()
		}
		return err
	}

	c.Set(HeaderWeatherSource, string(src))
	return c.JSON(snap)
}

func (h *handler) cities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cities": h.service.Cities()})
}

func (h *handler) health(c *fiber.Ctx) error {
	mode := "live"
	if h.service.MockMode() {
		mode = "mock"
	}

	body := fiber.Map{
		"status":    "ok",
		"message":   "API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"mode":      mode,
	}
	if status := h.service.Status(); status != nil {
		body["upstream"] = status
	}
	return c.JSON(body)
}

// cityError maps service errors for the city endpoints. requested is the path
// parameter as it arrived, before sanitizing and validation.
func cityError(err error, requested, timeoutMsg string) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return badRequest(verr)
	case errors.Is(err, weather.ErrTimeout):
		return timeoutError(timeoutMsg)
	case errors.Is(err, weather.ErrNotFound):
		return &apiError{
			status: fiber.StatusNotFound,
			body:   errorResponse{Error: fmt.Sprintf("city %q not found", requested)},
		}
	case errors.Is(err, weather.ErrUpstream):
		return providerUnavailable()
	}
	return err
}

func badRequest(verr *validation.Error) error {
	return &apiError{
		status: fiber.StatusBadRequest,
		body:   errorResponse{Error: "invalid input", Details: verr.Messages},
	}
}

func timeoutError(msg string) error {
	return &apiError{
		status: fiber.StatusRequestTimeout,
		body:   errorResponse{Error: "request timed out", Message: msg},
	}
}

func providerUnavailable() error {
	return &apiError{
		status: fiber.StatusBadGateway,
		body:   errorResponse{Error: "weather provider unavailable"},
	}
}
