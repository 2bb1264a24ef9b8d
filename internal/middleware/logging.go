package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hosamatch/backend/pkg/logger"
)

// RequestLogger logs one structured event per request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		}
		if err != nil {
			fields["error"] = err.Error()
		}

		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			logger.Error("http_request", fields)
		} else {
			logger.Info("http_request", fields)
		}

		return err
	}
}
