package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/internal/observability"
	"github.com/evalab/grader-api/internal/service"
	"github.com/evalab/grader-api/internal/utils"
	"github.com/evalab/grader-api/pkg/ai"
)

// EvaluationHandler exposes answer grading and the novice answer generator.
type EvaluationHandler struct {
	service   service.EvaluationService
	feedback  service.FeedbackService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(svc service.EvaluationService, feedback service.FeedbackService, validator *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   svc,
		feedback:  feedback,
		validator: validator,
		logger:    logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
	router.Post("/feedback", h.recordFeedback)
}

// RegisterNovice attaches the novice answer route to its own group.
func (h *EvaluationHandler) RegisterNovice(router fiber.Router) {
	router.Post("", h.noviceAnswer)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Evaluate(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.ObserveScore(result.Score)
	return utils.SendSuccess(c, "answer evaluated", result)
}

func (h *EvaluationHandler) recordFeedback(c *fiber.Ctx) error {
	var payload dto.FeedbackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	sentiment, err := h.feedback.Record(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "feedback recorded", sentiment)
}

func (h *EvaluationHandler) noviceAnswer(c *fiber.Ctx) error {
	var payload dto.NoviceAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	answer, err := h.service.GenerateNoviceAnswer(c.UserContext(), payload.Question)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "novice answer generated", dto.NoviceAnswerResponse{
		Question: payload.Question,
		Answer:   answer,
	})
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var completionErr *ai.CompletionError
	if errors.As(err, &completionErr) {
		h.logger.Error().Err(err).Msg("completion service failed")
		return utils.SendError(c, fiber.StatusBadGateway, "judgment model unavailable")
	}

	h.logger.Error().Err(err).Msg("evaluation request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
