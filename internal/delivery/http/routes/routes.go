package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"megawe/internal/delivery/http/handler"
	"megawe/internal/delivery/http/middleware"
	"megawe/internal/telemetry"
)

// Registry holds every handler the server mounts.
type Registry struct {
	Health      *handler.HealthHandler
	Jobs        *handler.JobsHandler
	Stats       *handler.StatsHandler
	Pages       *handler.PagesHandler
	JobsUpdated *handler.JobsUpdatedHandler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerOps(app)
	r.registerAPI(app)
	r.registerPages(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(telemetry.Handler()))
	if r.JobsUpdated != nil {
		r.JobsUpdated.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api", middleware.CORS())
	if r.Jobs != nil {
		r.Jobs.RegisterRoutes(api)
	}
	if r.Stats != nil {
		r.Stats.RegisterRoutes(api)
	}
}

func (r *Registry) registerPages(app *fiber.App) {
	if r.Pages != nil {
		r.Pages.RegisterRoutes(app)
	}
}
