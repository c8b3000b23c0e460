// Package main provides the agentics status API server.
package main

import (
	"log/slog"

	"github.com/dukex/agentics/pkg/handoff"
	"github.com/dukex/agentics/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	service  *handoff.Service
	validate *validator.Validate
}

func NewAPI(logger *slog.Logger, service *handoff.Service) *API {
	return &API{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.service, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Agentics API")
	})

	e := app.Group("/executions")
	e.Post("/", handlers.CreateExecution)
	e.Get("/supported", handlers.Supported)
	e.Get("/:id", handlers.GetExecution)
	e.Post("/:id/stop", handlers.StopExecution)
	e.Delete("/:id", handlers.DeleteExecution)

	app.Get("/config", handlers.GetConfig)
	app.Put("/config", handlers.PutConfig)

	return app
}
