package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/evalab/grader-api/internal/dataset"
	"github.com/evalab/grader-api/internal/utils"
)

// QuestionHandler serves records from the Q&A dataset.
type QuestionHandler struct {
	dataset *dataset.Dataset
	logger  zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(ds *dataset.Dataset, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		dataset: ds,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("/random", h.random)
	router.Get("/:id", h.byID)
}

func (h *QuestionHandler) random(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "question retrieved", h.dataset.Random())
}

func (h *QuestionHandler) byID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
	if err != nil || id < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "question id must be a non-negative integer")
	}

	record, err := h.dataset.ByID(id)
	if err != nil {
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	}

	return utils.SendSuccess(c, "question retrieved", record)
}
