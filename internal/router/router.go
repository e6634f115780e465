package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/evalab/grader-api/internal/config"
	"github.com/evalab/grader-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	QuestionHandler   *handler.QuestionHandler
	EvaluateRateLimit fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions"))
	}

	if deps.EvaluationHandler != nil {
		evaluations := api.Group("/evaluations")
		if deps.EvaluateRateLimit != nil {
			evaluations.Use(deps.EvaluateRateLimit)
		}
		deps.EvaluationHandler.Register(evaluations)

		novice := api.Group("/novice-answers")
		if deps.EvaluateRateLimit != nil {
			novice.Use(deps.EvaluateRateLimit)
		}
		deps.EvaluationHandler.RegisterNovice(novice)
	}

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})
}
