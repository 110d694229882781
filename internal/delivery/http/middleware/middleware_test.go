package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeError(t *testing.T) {
	status, msg, _ := normalizeError(NewAppError(fiber.StatusBadRequest, "Limit cannot exceed 100", nil, nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Limit cannot exceed 100", msg)

	status, msg, _ = normalizeError(NewAppError(fiber.StatusServiceUnavailable, "db password wrong", nil, nil))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", msg)

	status, msg, _ = normalizeError(fiber.NewError(fiber.StatusNotFound, ""))
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Not found", msg)

	status, _, _ = normalizeError(errors.New("boom"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

func TestErrorMiddleware_RecoversPanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(NewErrorMiddleware(log).Middleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "kaboom", hook.LastEntry().Data["panic"])
}

func TestAccessLog_RequestID(t *testing.T) {
	log, hook := test.NewNullLogger()
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log).Middleware())
	app.Get("/ok", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "req-123", entry.Data["request_id"])
	assert.Equal(t, 200, entry.Data["status"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(HeaderRequestID), 36)
}

func TestCORS_Preflight(t *testing.T) {
	app := fiber.New()
	app.Use(CORS())
	app.Get("/api/jobs", func(c fiber.Ctx) error { return c.SendString("jobs") })

	resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/api/jobs", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
