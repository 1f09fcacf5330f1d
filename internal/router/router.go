package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gayathriimasha/smart-campus-mis/internal/config"
	"github.com/gayathriimasha/smart-campus-mis/internal/handler"
	"github.com/gayathriimasha/smart-campus-mis/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReportHandler *handler.ReportHandler
	SeedHandler   *handler.SeedHandler
	HealthProbes  []handler.Probe
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/reports"))
	}

	// Seeding stays off the route table unless enabled.
	if deps.SeedHandler != nil && cfg.SeedEnabled {
		deps.SeedHandler.Register(api.Group("/seed"))
	}
}
