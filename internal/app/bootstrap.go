package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"megawe/internal/config"
	"megawe/internal/delivery/http/handler"
	"megawe/internal/delivery/http/middleware"
	"megawe/internal/delivery/http/routes"
	"megawe/internal/infrastructure/cache"
	"megawe/internal/pages"
	"megawe/internal/repository"
	"megawe/internal/usecase"
)

const connectGrace = 5 * time.Second

type App struct {
	Fiber *fiber.App
	Log   logrus.FieldLogger
}

// Deps are the collaborators the HTTP layer needs. Cache may be nil.
type Deps struct {
	Jobs  repository.JobRepository
	Stats repository.StatsRepository
	Cache *cache.Redis
	DB    handler.Pinger
	Log   logrus.FieldLogger
}

func New(cfg config.Config, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, log)
	registry(cfg, deps, log).Register(f)

	return &App{Fiber: f, Log: log}
}

// Bootstrap connects to storage and returns the app with its cleanup.
func Bootstrap(cfg config.Config, log *logrus.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(cfg, c.Deps()), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log logrus.FieldLogger) {
	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.Metrics())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registry(cfg config.Config, deps Deps, log logrus.FieldLogger) *routes.Registry {
	var searchCache usecase.SearchCache
	var cacheStatus handler.CacheStatus
	var invalidator handler.JobsCacheInvalidator
	if deps.Cache != nil {
		searchCache = deps.Cache
		cacheStatus = deps.Cache
		invalidator = deps.Cache
	}

	reg := &routes.Registry{
		Health:      handler.NewHealthHandler(deps.DB, cacheStatus),
		JobsUpdated: handler.NewJobsUpdatedHandler(cfg.App.InternalToken, invalidator, log),
	}
	if deps.Jobs != nil {
		jobsUC := usecase.NewJobListUsecase(deps.Jobs, searchCache, cfg.Redis.TTL, log)
		pagesUC := usecase.NewPageUsecase(deps.Jobs, log)
		reg.Jobs = handler.NewJobsHandler(jobsUC, log)
		reg.Pages = handler.NewPagesHandler(pagesUC, pages.NewBuilder(cfg.App.SiteBaseURL), log)
	}
	if deps.Stats != nil {
		reg.Stats = handler.NewStatsHandler(usecase.NewStatsUsecase(deps.Stats, log))
	}
	return reg
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
