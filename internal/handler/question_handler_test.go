package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalab/grader-api/internal/dataset"
	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/internal/handler"
)

func setupQuestionApp(t *testing.T) *fiber.App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "qa_dataset.json")
	payload := `[
		{"question": "What is gradient descent?", "answer": "An iterative optimization method."},
		{"question": "What is overfitting?", "answer": "Fitting noise instead of signal."}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	ds, err := dataset.Load(path, zerolog.Nop())
	require.NoError(t, err)

	app := fiber.New()
	handler.NewQuestionHandler(ds, zerolog.Nop()).Register(app.Group("/api/v1/questions"))
	return app
}

func TestRandomQuestion(t *testing.T) {
	app := setupQuestionApp(t)

	req := httptest.NewRequest("GET", "/api/v1/questions/random", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data dto.QuestionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.NotEmpty(t, envelope.Data.Question)
	assert.NotEmpty(t, envelope.Data.Answer)
}

func TestQuestionByID(t *testing.T) {
	app := setupQuestionApp(t)

	req := httptest.NewRequest("GET", "/api/v1/questions/1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data dto.QuestionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, 1, envelope.Data.ID)
	assert.Equal(t, "What is overfitting?", envelope.Data.Question)
}

func TestQuestionByIDNotFound(t *testing.T) {
	app := setupQuestionApp(t)

	req := httptest.NewRequest("GET", "/api/v1/questions/99", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestQuestionByIDBadID(t *testing.T) {
	app := setupQuestionApp(t)

	req := httptest.NewRequest("GET", "/api/v1/questions/not-a-number", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
