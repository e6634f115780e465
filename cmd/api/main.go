package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/evalab/grader-api/internal/config"
	"github.com/evalab/grader-api/internal/dataset"
	"github.com/evalab/grader-api/internal/handler"
	"github.com/evalab/grader-api/internal/middleware"
	"github.com/evalab/grader-api/internal/router"
	"github.com/evalab/grader-api/internal/service"
	"github.com/evalab/grader-api/pkg/ai"
	"github.com/evalab/grader-api/pkg/evallog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	ds, err := dataset.Load(cfg.DataPath, logger)
	if err != nil {
		log.Fatalf("failed to load qa dataset: %v", err)
	}

	logWriter, err := evallog.NewWriter(cfg.EvalLogPath, logger)
	if err != nil {
		log.Fatalf("failed to open evaluation log: %v", err)
	}

	// The completion client is built on first use so a missing API key only
	// fails requests that actually need the judgment model.
	completer := ai.NewLazyCompleter(func() (ai.Completer, error) {
		return ai.NewOpenAIChat(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.MasterModel,
			Logger: logger,
		})
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	evaluationService := service.NewEvaluationService(completer, validate, logger, service.EvaluationConfig{
		MasterMaxTokens:   cfg.MasterMaxTokens,
		MasterTemperature: cfg.MasterTemperature,
		NoviceMaxTokens:   cfg.NoviceMaxTokens,
		NoviceTemperature: cfg.NoviceTemperature,
		DefaultLanguage:   cfg.DefaultLanguage,
		DefaultScore:      cfg.DefaultScore,
	})
	feedbackService := service.NewFeedbackService(completer, logWriter, validate, logger, service.FeedbackConfig{
		NeutralBandLow:  cfg.NeutralBandLow,
		NeutralBandHigh: cfg.NeutralBandHigh,
	})

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, feedbackService, validate, logger)
	questionHandler := handler.NewQuestionHandler(ds, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		QuestionHandler:   questionHandler,
		EvaluateRateLimit: middleware.RateLimit("evaluate", cfg.EvaluateRPSLimit, time.Second),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
