package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"megawe/internal/pages"
	"megawe/internal/telemetry"
	"megawe/internal/usecase"
)

const (
	jobPageCacheControl     = "public, max-age=3600, s-maxage=86400"
	listingPageCacheControl = "public, max-age=1800, s-maxage=3600"
	notFoundCacheControl    = "public, max-age=300"
	errorCacheControl       = "no-store"
)

var kindLabels = map[pages.Kind]string{
	pages.KindJob:      "job",
	pages.KindCompany:  "company",
	pages.KindLocation: "location",
}

// PagesHandler serves the server-rendered documents. It never returns an
// error to the JSON error middleware: failures become HTML status pages.
type PagesHandler struct {
	uc      usecase.PageUsecase
	builder *pages.Builder
	log     logrus.FieldLogger
}

func NewPagesHandler(uc usecase.PageUsecase, builder *pages.Builder, log logrus.FieldLogger) *PagesHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PagesHandler{uc: uc, builder: builder, log: log}
}

func (h *PagesHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/jobs/:id", h.HandleJob)
	r.Get("/companies/:id", h.HandleCompany)
	r.Get("/locations/:slug", h.HandleLocation)
}

func (h *PagesHandler) HandleJob(c fiber.Ctx) error {
	v, err := h.uc.JobDetail(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, pages.KindJob, err)
	}
	return h.send(c, pages.KindJob, jobPageCacheControl, h.builder.JobPage(v))
}

func (h *PagesHandler) HandleCompany(c fiber.Ctx) error {
	p, err := h.uc.CompanyProfile(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, pages.KindCompany, err)
	}
	return h.send(c, pages.KindCompany, listingPageCacheControl, h.builder.CompanyPage(p))
}

func (h *PagesHandler) HandleLocation(c fiber.Ctx) error {
	l, err := h.uc.LocationListing(c.Context(), c.Params("slug"))
	if err != nil {
		return h.fail(c, pages.KindLocation, err)
	}
	return h.send(c, pages.KindLocation, listingPageCacheControl, h.builder.LocationPage(l))
}

func (h *PagesHandler) send(c fiber.Ctx, kind pages.Kind, cacheControl, body string) error {
	setSecurityHeaders(c)
	c.Set(fiber.HeaderCacheControl, cacheControl)
	return h.html(c, kind, fiber.StatusOK, body)
}

func (h *PagesHandler) fail(c fiber.Ctx, kind pages.Kind, err error) error {
	setSecurityHeaders(c)
	if errors.Is(err, usecase.ErrNotFound) {
		c.Set(fiber.HeaderCacheControl, notFoundCacheControl)
		return h.html(c, kind, fiber.StatusNotFound, pages.NotFound(kind))
	}

	h.log.WithError(err).WithFields(logrus.Fields{
		"page": kindLabels[kind],
		"path": c.Path(),
	}).Error("[Pages] render failed")
	c.Set(fiber.HeaderCacheControl, errorCacheControl)
	return h.html(c, kind, fiber.StatusInternalServerError, pages.ServerError(kind))
}

func (h *PagesHandler) html(c fiber.Ctx, kind pages.Kind, status int, body string) error {
	telemetry.PageRenders.WithLabelValues(kindLabels[kind], strconv.Itoa(status)).Inc()
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(body)
}

func setSecurityHeaders(c fiber.Ctx) {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set(fiber.HeaderXXSSProtection, "1; mode=block")
}
