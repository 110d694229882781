package handler

import (
	"github.com/gofiber/fiber/v3"

	"megawe/internal/pkg/response"
	"megawe/internal/usecase"
)

const statsCacheControl = "public, max-age=600"

type StatsHandler struct {
	uc usecase.StatsUsecase
}

func NewStatsHandler(uc usecase.StatsUsecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/stats", h.HandleStats)
	r.Get("/stats/summary", h.HandleSummary)
}

func (h *StatsHandler) HandleStats(c fiber.Ctx) error {
	st, err := h.uc.Stats(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	c.Set(fiber.HeaderCacheControl, statsCacheControl)
	return response.Success(c, fiber.StatusOK, st)
}

func (h *StatsHandler) HandleSummary(c fiber.Ctx) error {
	sum, err := h.uc.Summary(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	c.Set(fiber.HeaderCacheControl, statsCacheControl)
	return response.Success(c, fiber.StatusOK, sum)
}
