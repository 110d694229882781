package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"megawe/internal/telemetry"
)

// Metrics counts requests per matched route pattern so ids in paths do not
// explode label cardinality.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = normalizeError(err)
		}

		telemetry.HTTPRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		telemetry.HTTPDuration.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
