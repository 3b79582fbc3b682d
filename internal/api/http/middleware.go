package httpapi

import (
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/i474232898/nordic-weather/internal/validation"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self'"

// requestLogger logs method, path, final status and duration of every request.
// Errors are rendered here so the logged status matches what the client got.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Int("bytes", len(c.Response().Body())),
			zap.Duration("dur", time.Since(start)),
			zap.String("req_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		)
		return nil
	}
}

// securityHeaders sets clickjacking, sniffing, XSS, CSP and referrer headers.
// HSTS is only sent over https.
func securityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		HSTSMaxAge:            31536000,
	})
}

func corsHandler(origins []string) fiber.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions,
		}, ","),
		AllowHeaders:  "Content-Type,Authorization,X-Requested-With,Accept,Origin",
		ExposeHeaders: "X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		// Fiber refuses credentials together with a wildcard origin.
		AllowCredentials: !slices.Contains(origins, "*"),
	})
}

// rateLimit throttles requests per client IP. max <= 0 disables it.
func rateLimit(max int, window time.Duration, message string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if window <= 0 {
		window = 15 * time.Minute
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":      message,
				"retryAfter": int(window.Seconds()),
			})
		},
	})
}

// sanitizeInput strips markup characters from query values and caps their length.
// Path parameters are sanitized by the handlers once routing has matched them.
func sanitizeInput() fiber.Handler {
	return func(c *fiber.Ctx) error {
		args := c.Request().URI().QueryArgs()

		var pairs [][2]string
		args.VisitAll(func(k, v []byte) {
			pairs = append(pairs, [2]string{string(k), validation.SanitizeString(string(v))})
		})
		for _, p := range pairs {
			args.Set(p[0], p[1])
		}

		return c.Next()
	}
}
