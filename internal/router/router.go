package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edge-social/edge-sync/internal/config"
	"github.com/edge-social/edge-sync/internal/handler"
	"github.com/edge-social/edge-sync/internal/middleware"
	"github.com/edge-social/edge-sync/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProxyHandler *handler.ProxyHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/healthz", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.ProxyHandler != nil {
		api := app.Group("/api", func(c *fiber.Ctx) error {
			c.Set("X-Application", cfg.AppName)
			return c.Next()
		})
		api.Post("/", middleware.RateLimit("proxy", cfg.ProxyRateLimit, cfg.ProxyRateWindow), deps.ProxyHandler.Forward)
	}
}
