package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"megawe/internal/pkg/response"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	log logrus.FieldLogger
}

func NewAccessLogMiddleware(log logrus.FieldLogger) *AccessLogMiddleware {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AccessLogMiddleware{log: log}
}

// Middleware assigns a request id, records the start time for the response
// envelope and logs one entry per request.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(response.LocalRequestID, rid)
		c.Locals(response.LocalStartedAt, start)

		err := c.Next()

		entry := m.log.WithFields(logrus.Fields{
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.OriginalURL(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.IP(),
			"resp_bytes": len(c.Response().Body()),
			"ua":         c.Get(fiber.HeaderUserAgent),
		})
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Info("[HTTP] access")

		return err
	}
}
