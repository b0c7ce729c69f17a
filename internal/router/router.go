package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scribalabs/scriba-api/internal/config"
	"github.com/scribalabs/scriba-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RubricHandler  *handler.RubricHandler
	ScoringHandler *handler.ScoringHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.RubricHandler != nil {
		deps.RubricHandler.Register(api.Group("/rubrics"))
	}

	if deps.ScoringHandler != nil {
		deps.ScoringHandler.Register(api.Group("/scores"))
	}
}
