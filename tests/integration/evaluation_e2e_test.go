package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalab/grader-api/internal/config"
	"github.com/evalab/grader-api/internal/dataset"
	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/internal/handler"
	"github.com/evalab/grader-api/internal/router"
	"github.com/evalab/grader-api/internal/service"
	"github.com/evalab/grader-api/pkg/ai"
	"github.com/evalab/grader-api/pkg/evallog"
)

// replayCompleter returns canned replies in order, cycling the last one.
type replayCompleter struct {
	replies []string
	calls   int
}

func (r *replayCompleter) Complete(context.Context, ai.CompletionRequest) (string, error) {
	idx := r.calls
	if idx >= len(r.replies) {
		idx = len(r.replies) - 1
	}
	r.calls++
	return r.replies[idx], nil
}

func setupApp(t *testing.T, completer ai.Completer) (*fiber.App, string) {
	t.Helper()

	dir := t.TempDir()
	dataPath := filepath.Join(dir, "qa_dataset.json")
	logPath := filepath.Join(dir, "evaluations_log.jsonl")
	require.NoError(t, os.WriteFile(dataPath, []byte(`[
		{"question": "What does a loss function measure?", "answer": "The gap between predictions and targets."}
	]`), 0o644))

	cfg := config.Config{
		AppName: "Evalab Grader API",
		AppEnv:  "test",
	}

	logger := zerolog.Nop()
	validate := validator.New(validator.WithRequiredStructEnabled())

	ds, err := dataset.Load(dataPath, logger)
	require.NoError(t, err)

	logWriter, err := evallog.NewWriter(logPath, logger)
	require.NoError(t, err)

	evaluationService := service.NewEvaluationService(completer, validate, logger, service.EvaluationConfig{})
	feedbackService := service.NewFeedbackService(completer, logWriter, validate, logger, service.FeedbackConfig{})

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, feedbackService, validate, logger),
		QuestionHandler:   handler.NewQuestionHandler(ds, logger),
	})
	return app, logPath
}

func TestEvaluationFlow(t *testing.T) {
	completer := &replayCompleter{replies: []string{
		"The answer names the core idea but skips the comparison to targets.\n\nScore: 64",
		`{"label": "POSITIVE", "score": 0.85}`,
	}}
	app, logPath := setupApp(t, completer)

	// Pull a question from the dataset.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/questions/random", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var questionEnvelope struct {
		Data dto.QuestionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&questionEnvelope))
	question := questionEnvelope.Data

	// Grade an answer against it.
	evalBody, err := json.Marshal(dto.EvaluateRequest{
		QuestionID:      &question.ID,
		Question:        question.Question,
		ReferenceAnswer: question.Answer,
		StudentAnswer:   "It measures how wrong the model is.",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(evalBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var evalEnvelope struct {
		Data dto.EvaluationResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&evalEnvelope))
	evaluation := evalEnvelope.Data
	assert.Equal(t, 64, evaluation.Score)
	assert.Greater(t, evaluation.OverlapUnigramF1, 0.0)

	// Record feedback on the evaluation.
	feedbackBody, err := json.Marshal(dto.FeedbackRequest{
		Evaluation: evaluation,
		Tags:       []string{"accurate"},
		Text:       "fair grade, clear reasoning",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/evaluations/feedback", bytes.NewReader(feedbackBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sentimentEnvelope struct {
		Data dto.SentimentResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sentimentEnvelope))
	assert.Equal(t, "POSITIVE", sentimentEnvelope.Data.Label)

	// The feedback landed in the append-only log as one flattened line.
	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var record dto.EvaluationLogRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, 64, record.Score)
	assert.Equal(t, []string{"accurate"}, record.FeedbackTags)
	assert.Equal(t, "POSITIVE", record.SentimentLabel)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	app, _ := setupApp(t, &replayCompleter{replies: []string{"Score: 50"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Evalab Grader API", resp.Header.Get("X-Application"))

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}
