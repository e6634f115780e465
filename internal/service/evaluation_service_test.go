package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/pkg/ai"
	"github.com/evalab/grader-api/pkg/textmetrics"
)

type stubCompleter struct {
	reply    string
	err      error
	requests []ai.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req ai.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newEvaluationService(completer ai.Completer) EvaluationService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEvaluationService(completer, validate, zerolog.Nop(), EvaluationConfig{
		MasterMaxTokens:   512,
		MasterTemperature: 0.2,
		NoviceMaxTokens:   200,
		NoviceTemperature: 0.7,
		DefaultLanguage:   "English",
		DefaultScore:      50,
	})
}

func TestEvaluateEndToEnd(t *testing.T) {
	judgment := "The student's answer is partially correct but misses some key points.\n\nScore: 65"
	completer := &stubCompleter{reply: judgment}
	svc := newEvaluationService(completer)

	questionID := 1
	payload := dto.EvaluateRequest{
		QuestionID:      &questionID,
		Question:        "What is backpropagation?",
		ReferenceAnswer: "Backpropagation is an algorithm for training neural networks by propagating errors backward.",
		StudentAnswer:   "Backpropagation is used to train neural networks.",
		Language:        "English",
	}

	result, err := svc.Evaluate(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, &questionID, result.QuestionID)
	assert.Equal(t, payload.Question, result.Question)
	assert.Equal(t, payload.ReferenceAnswer, result.ReferenceAnswer)
	assert.Equal(t, payload.StudentAnswer, result.StudentAnswer)
	assert.Equal(t, judgment, result.JudgmentText)
	assert.Equal(t, 65, result.Score)
	assert.Greater(t, result.OverlapUnigramF1, 0.0)
	assert.Greater(t, result.OverlapLCSF1, 0.0)
	assert.LessOrEqual(t, result.OverlapUnigramF1, 1.0)
	assert.LessOrEqual(t, result.OverlapLCSF1, 1.0)

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, graderSystemPrompt, req.SystemPrompt)
	assert.Equal(t, 512, req.MaxTokens)
	assert.InDelta(t, 0.2, float64(req.Temperature), 1e-6)
	assert.Contains(t, req.UserPrompt, payload.Question)
}

func TestEvaluateCompletionFailureIsFatal(t *testing.T) {
	failure := &ai.CompletionError{Provider: "openai", Err: assert.AnError}
	svc := newEvaluationService(&stubCompleter{err: failure})

	_, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		Question:        "q",
		ReferenceAnswer: "r",
		StudentAnswer:   "s",
	})

	require.Error(t, err)
	var completionErr *ai.CompletionError
	require.ErrorAs(t, err, &completionErr)
}

func TestEvaluateDefaultsLanguage(t *testing.T) {
	completer := &stubCompleter{reply: "Score: 80"}
	svc := newEvaluationService(completer)

	result, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		Question:        "q",
		ReferenceAnswer: "r",
		StudentAnswer:   "s",
	})
	require.NoError(t, err)
	assert.Equal(t, "English", result.Language)
	assert.Contains(t, completer.requests[0].UserPrompt, "respond in English")
}

func TestEvaluateEmptyStudentAnswerStillEvaluated(t *testing.T) {
	completer := &stubCompleter{reply: "No answer was given. Score: 0"}
	svc := newEvaluationService(completer)

	result, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		Question:        "What is a perceptron?",
		ReferenceAnswer: "A linear binary classifier.",
		StudentAnswer:   "",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0.0, result.OverlapUnigramF1)
	assert.Equal(t, 0.0, result.OverlapLCSF1)
}

func TestEvaluateUnparseableJudgmentUsesDefaultScore(t *testing.T) {
	completer := &stubCompleter{reply: "A thoughtful reply that never states a grade."}
	svc := newEvaluationService(completer)

	result, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		Question:        "q",
		ReferenceAnswer: "r",
		StudentAnswer:   "s",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)
}

func TestEvaluateMetricFailureDegradesToZero(t *testing.T) {
	completer := &stubCompleter{reply: "Score: 65"}
	svc := newEvaluationService(completer).(*evaluationService)
	svc.overlap = func(string, string) textmetrics.Scores {
		panic("metric backend unavailable")
	}

	result, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		Question:        "q",
		ReferenceAnswer: "r",
		StudentAnswer:   "s",
	})
	require.NoError(t, err)
	assert.Equal(t, 65, result.Score)
	assert.Equal(t, 0.0, result.OverlapUnigramF1)
	assert.Equal(t, 0.0, result.OverlapLCSF1)
}

func TestEvaluateRejectsMissingQuestion(t *testing.T) {
	svc := newEvaluationService(&stubCompleter{reply: "Score: 10"})

	_, err := svc.Evaluate(context.Background(), dto.EvaluateRequest{
		ReferenceAnswer: "r",
		StudentAnswer:   "s",
	})
	require.Error(t, err)
}

func TestGenerateNoviceAnswerUsesNovicePersona(t *testing.T) {
	completer := &stubCompleter{reply: "I think it is something about layers?"}
	svc := newEvaluationService(completer)

	answer, err := svc.GenerateNoviceAnswer(context.Background(), "What is a hidden layer?")
	require.NoError(t, err)
	assert.Equal(t, "I think it is something about layers?", answer)

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, noviceSystemPrompt, req.SystemPrompt)
	assert.Equal(t, 200, req.MaxTokens)
	assert.InDelta(t, 0.7, float64(req.Temperature), 1e-6)
}

func TestGenerateNoviceAnswerPropagatesFailure(t *testing.T) {
	failure := &ai.CompletionError{Provider: "openai", Err: assert.AnError}
	svc := newEvaluationService(&stubCompleter{err: failure})

	_, err := svc.GenerateNoviceAnswer(context.Background(), "q")
	require.Error(t, err)
}
