package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/nordic-weather/internal/weather"
)

// Options configures the HTTP surface.
type Options struct {
	// Development exposes internal error messages in 500 responses.
	Development    bool
	AllowedOrigins []string

	RateLimitWindow     time.Duration
	RateLimitMax        int
	WeatherRateLimitMax int
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// apiError carries a status and body from a handler to the error handler.
type apiError struct {
	status int
	body   errorResponse
}

func (e *apiError) Error() string {
	return e.body.Error
}

// NewApp builds the Fiber application with middleware and routes.
func NewApp(service *weather.Service, opts Options, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "nordic-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		UnescapePath:          true,
		ErrorHandler:          newErrorHandler(opts.Development, logger),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(logger))
	app.Use(recover.New())
	app.Use(securityHeaders())
	app.Use(corsHandler(opts.AllowedOrigins))
	app.Use(rateLimit(opts.RateLimitMax, opts.RateLimitWindow,
		"too many requests from this IP, please try again later"))
	app.Use(sanitizeInput())

	RegisterRoutes(app, service, opts)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Error:   "route not found",
			Message: "the requested resource does not exist",
		})
	})

	return app
}

func newErrorHandler(development bool, logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apiError
		if errors.As(err, &ae) {
			return c.Status(ae.status).JSON(ae.body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(errorResponse{Error: fe.Message})
		}

		logger.Error("unhandled error",
			zap.String("path", c.Path()),
			zap.String("req_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.Error(err),
		)

		msg := "internal server error"
		if development {
			msg = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: msg})
	}
}
