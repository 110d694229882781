package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"megawe/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheStatus is the optional dependency reported by /health.
type CacheStatus interface {
	Pinger
	Available() bool
}

const (
	checkOK       = "ok"
	checkDown     = "down"
	checkDisabled = "disabled"
	pingTimeout   = 2 * time.Second
)

type HealthHandler struct {
	db    Pinger
	cache CacheStatus
}

func NewHealthHandler(db Pinger, cache CacheStatus) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.HandleHealth)
}

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// HandleHealth answers 503 only when the database is unreachable; the cache
// is optional.
func (h *HealthHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	rep := healthReport{Status: checkOK, Database: checkOK, Cache: checkDisabled}
	if h.db == nil || h.db.Ping(ctx) != nil {
		rep.Database = checkDown
		rep.Status = "degraded"
	}
	if h.cache != nil && h.cache.Available() {
		rep.Cache = checkOK
		if h.cache.Ping(ctx) != nil {
			rep.Cache = checkDown
		}
	}

	c.Set(fiber.HeaderCacheControl, errorCacheControl)
	if rep.Database != checkOK {
		return response.Error(c, fiber.StatusServiceUnavailable, "database unavailable", rep)
	}
	return response.Success(c, fiber.StatusOK, rep)
}
