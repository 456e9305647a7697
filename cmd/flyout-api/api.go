// Package main provides the flyout API server.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/dukex/flyout/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger *slog.Logger
	runner web.Runner
}

func NewAPI(logger *slog.Logger, runner web.Runner) *API {
	return &API{
		logger: logger,
		runner: runner,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.runner)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: handlers.Ready,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("flyout API")
	})

	r := app.Group("/runs")
	r.Post("/", handlers.StartRun)
	r.Get("/status", handlers.RunStatus)

	return app
}

// Start serves until ctx is cancelled.
func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		if err := app.Shutdown(); err != nil {
			a.logger.Error("Failed to shut down API", "error", err)
		}
	}()

	a.logger.InfoContext(ctx, "Listening", "port", port)

	return app.Listen(":" + strconv.Itoa(port))
}
