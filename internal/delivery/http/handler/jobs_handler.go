package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"megawe/internal/delivery/http/middleware"
	"megawe/internal/pkg/response"
	"megawe/internal/search"
	"megawe/internal/telemetry"
	"megawe/internal/usecase"
)

const (
	listCacheControl = "public, max-age=300"
	headerCache      = "X-Cache"
)

type JobsHandler struct {
	uc  usecase.JobListUsecase
	log logrus.FieldLogger
}

func NewJobsHandler(uc usecase.JobListUsecase, log logrus.FieldLogger) *JobsHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JobsHandler{uc: uc, log: log}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/jobs", h.HandleListJobs)
	r.Get("/featured-jobs", h.HandleFeaturedJobs)
}

func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	page, hit, err := h.uc.ListJobs(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err)
	}
	telemetry.ObserveCache("jobs", hit)

	setCacheStatus(c, hit)
	c.Set(fiber.HeaderCacheControl, listCacheControl)
	return response.Paginated(c, fiber.StatusOK, page.Jobs, page.Pagination)
}

type featuredData struct {
	Jobs    any             `json:"jobs"`
	Filters *usecase.Facets `json:"filters"`
}

func (h *JobsHandler) HandleFeaturedJobs(c fiber.Ctx) error {
	var f search.FeaturedSpec
	var err error
	if f.Limit, err = parseQueryIntStrict(c, "limit", 0); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}
	if f.Page, err = parseQueryIntStrict(c, "page", 0); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	}

	page, hit, err := h.uc.FeaturedJobs(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err)
	}
	telemetry.ObserveCache("featured", hit)

	setCacheStatus(c, hit)
	c.Set(fiber.HeaderCacheControl, listCacheControl)
	return response.Paginated(c, fiber.StatusOK, featuredData{Jobs: page.Jobs, Filters: page.Facets}, page.Pagination)
}

// filterFromQuery reads the list filters. Absent values mean no constraint;
// numbers that do not parse are rejected.
func filterFromQuery(c fiber.Ctx) (search.FilterSpec, error) {
	f := search.FilterSpec{
		Query:           c.Query("query"),
		Location:        c.Query("location"),
		CompanyID:       c.Query("companyId"),
		Category:        c.Query("category"),
		ExperienceLevel: c.Query("experienceLevel"),
		EmploymentTypes: queryList(c, "employmentType"),
		Remote:          strings.EqualFold(strings.TrimSpace(c.Query("remote")), "true"),
		SortBy:          c.Query("sortBy"),
		SortOrder:       c.Query("sortOrder"),
	}

	var err error
	if f.Page, err = parseQueryIntStrict(c, "page", 0); err != nil {
		return f, err
	}
	if f.Limit, err = parseQueryIntStrict(c, "limit", 0); err != nil {
		return f, err
	}
	if f.SalaryMin, err = parseQueryInt64Strict(c, "salaryMin"); err != nil {
		return f, err
	}
	if f.SalaryMax, err = parseQueryInt64Strict(c, "salaryMax"); err != nil {
		return f, err
	}
	return f, nil
}

// queryList collects repeated keys and comma-joined values alike.
func queryList(c fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Request().URI().QueryArgs().PeekMulti(key) {
		for _, p := range strings.Split(string(raw), ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func parseQueryInt64Strict(c fiber.Ctx, key string) (int64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}

func setCacheStatus(c fiber.Ctx, hit bool) {
	if hit {
		c.Set(headerCache, "HIT")
		return
	}
	c.Set(headerCache, "MISS")
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		msg := response.MessageBadRequest
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
