package handler

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"megawe/internal/delivery/http/middleware"
	"megawe/internal/pkg/response"
	"megawe/internal/search"
	"megawe/internal/telemetry"
)

const HeaderInternalToken = "X-Internal-Token"

// JobsUpdatedRequest is sent by the ingestion pipeline after it writes rows.
type JobsUpdatedRequest struct {
	Source    string   `json:"source" validate:"max=100"`
	UpdatedAt string   `json:"updatedAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	JobIDs    []string `json:"jobIds" validate:"max=1000"`
}

type JobsCacheInvalidator interface {
	InvalidateJobs(ctx context.Context) (int, error)
}

type JobsUpdatedHandler struct {
	token string
	cache JobsCacheInvalidator
	log   logrus.FieldLogger
}

// NewJobsUpdatedHandler rejects every call when token is empty.
func NewJobsUpdatedHandler(token string, cache JobsCacheInvalidator, log logrus.FieldLogger) *JobsUpdatedHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JobsUpdatedHandler{token: strings.TrimSpace(token), cache: cache, log: log}
}

func (h *JobsUpdatedHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/internal/jobs-updated", h.HandleJobsUpdated)
}

type jobsUpdatedResult struct {
	Status      string `json:"status"`
	KeysDeleted int    `json:"keysDeleted"`
	Source      string `json:"source,omitempty"`
}

func (h *JobsUpdatedHandler) HandleJobsUpdated(c fiber.Ctx) error {
	tok := strings.TrimSpace(c.Get(HeaderInternalToken))
	if h.token == "" || subtle.ConstantTimeCompare([]byte(tok), []byte(h.token)) != 1 {
		return middleware.NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
	}

	var req JobsUpdatedRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			h.log.WithError(err).Warn("[Webhook] bad payload")
			return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
		}
	}
	req.Source = strings.TrimSpace(req.Source)
	req.UpdatedAt = strings.TrimSpace(req.UpdatedAt)
	if err := search.ValidateStruct(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	started := time.Now()
	n := 0
	if h.cache != nil {
		var err error
		n, err = h.cache.InvalidateJobs(c.Context())
		if err != nil {
			h.log.WithError(err).Warn("[Webhook] cache invalidation incomplete")
		}
	}
	telemetry.CacheInvalidations.Add(float64(n))

	h.log.WithFields(logrus.Fields{
		"source":       req.Source,
		"updated_at":   req.UpdatedAt,
		"job_ids":      len(req.JobIDs),
		"keys_deleted": n,
		"elapsed_ms":   time.Since(started).Milliseconds(),
	}).Info("[Webhook] jobs updated, cache invalidated")

	return response.Success(c, fiber.StatusOK, jobsUpdatedResult{
		Status:      "cache_invalidated",
		KeysDeleted: n,
		Source:      req.Source,
	})
}
