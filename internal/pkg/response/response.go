package response

import (
	"time"

	"github.com/gofiber/fiber/v3"
)

// Locals keys set by the access-log middleware.
const (
	LocalRequestID = "request_id"
	LocalStartedAt = "request_started_at"
)

const APIVersion = "v1"

type Meta struct {
	Timestamp      string `json:"timestamp"`
	RequestID      string `json:"requestId,omitempty"`
	Version        string `json:"version"`
	ProcessingTime int64  `json:"processingTime"`
}

// Envelope is the shape of every JSON API response.
type Envelope struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	Pagination any    `json:"pagination,omitempty"`
	Meta       Meta   `json:"meta"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "Bad request"
	MessageUnauthorized        = "Unauthorized"
	MessageForbidden           = "Forbidden"
	MessageNotFound            = "Not found"
	MessageMethodNotAllowed    = "Method not allowed"
	MessageUnprocessableEntity = "Unprocessable entity"
	MessageInternalServerError = "Internal server error"
	MessageError               = "Error"
)

func Success(c fiber.Ctx, status int, data any) error {
	return Paginated(c, status, data, nil)
}

// Paginated writes a success envelope with a top-level pagination block.
func Paginated(c fiber.Ctx, status int, data any, pagination any) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{
		Success:    true,
		Data:       data,
		Pagination: pagination,
		Meta:       MetaFor(c),
	})
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(Envelope{
		Success: false,
		Data:    data,
		Error:   normalizeMessage(message, st),
		Meta:    MetaFor(c),
	})
}

// MetaFor stamps the response with the request id and elapsed time recorded
// on the context.
func MetaFor(c fiber.Ctx) Meta {
	now := time.Now()
	m := Meta{Timestamp: now.UTC().Format(time.RFC3339Nano), Version: APIVersion}
	if rid, ok := c.Locals(LocalRequestID).(string); ok {
		m.RequestID = rid
	}
	if start, ok := c.Locals(LocalStartedAt).(time.Time); ok {
		m.ProcessingTime = now.Sub(start).Milliseconds()
	}
	return m
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	return DefaultMessage(status)
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
