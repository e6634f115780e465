package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/pkg/ai"
	"github.com/evalab/grader-api/pkg/textmetrics"
)

// EvaluationConfig carries the tunables for both completion personas and the
// parser fallback.
type EvaluationConfig struct {
	MasterMaxTokens   int
	MasterTemperature float32
	NoviceMaxTokens   int
	NoviceTemperature float32
	DefaultLanguage   string
	DefaultScore      int
}

// EvaluationService grades free-text answers against reference answers.
type EvaluationService interface {
	Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluationResponse, error)
	GenerateNoviceAnswer(ctx context.Context, question string) (string, error)
}

type evaluationService struct {
	completer ai.Completer
	validator *validator.Validate
	logger    zerolog.Logger
	cfg       EvaluationConfig
	overlap   func(student, reference string) textmetrics.Scores
}

// NewEvaluationService constructs the evaluation orchestrator.
func NewEvaluationService(completer ai.Completer, validator *validator.Validate, logger zerolog.Logger, cfg EvaluationConfig) EvaluationService {
	if cfg.MasterMaxTokens <= 0 {
		cfg.MasterMaxTokens = 512
	}
	if cfg.NoviceMaxTokens <= 0 {
		cfg.NoviceMaxTokens = 200
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "English"
	}
	if cfg.DefaultScore <= 0 || cfg.DefaultScore > 100 {
		cfg.DefaultScore = 50
	}

	return &evaluationService{
		completer: completer,
		validator: validator,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		cfg:       cfg,
		overlap:   textmetrics.Overlap,
	}
}

/// Evaluate runs one grading pass: compose the rubric prompt, obtain the
// judgment text, parse the score, compute the overlap metrics, and assemble
// the result. A completion failure aborts the call with no partial result; a
// metric failure degrades to zero scores because the metrics are a
// supplementary signal, not the grade.
func (s *evaluationService) Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluationResponse, error) {
	tracer := otel.Tracer("github.com/evalab/grader-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.evaluate")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	language := strings.TrimSpace(payload.Language)
	if language == "" {
		language = s.cfg.DefaultLanguage
	}

	if payload.QuestionID != nil {
		span.SetAttributes(attribute.Int("evaluation.question_id", *payload.QuestionID))
	}
	span.SetAttributes(attribute.String("evaluation.language", language))

	prompt := buildEvaluationPrompt(payload.Question, payload.ReferenceAnswer, payload.StudentAnswer, language)

	judgment, err := s.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: graderSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    s.cfg.MasterMaxTokens,
		Temperature:  s.cfg.MasterTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return dto.EvaluationResponse{}, err
	}

	score := parseScore(judgment, s.cfg.DefaultScore)
	overlap := s.computeOverlap(payload.StudentAnswer, payload.ReferenceAnswer)

	span.SetAttributes(
		attribute.Int("evaluation.score", score),
		attribute.Float64("evaluation.overlap_unigram_f1", overlap.UnigramF1),
		attribute.Float64("evaluation.overlap_lcs_f1", overlap.LCSF1),
	)

	s.logger.Info().
		Int("score", score).
		Float64("overlap_unigram_f1", overlap.UnigramF1).
		Float64("overlap_lcs_f1", overlap.LCSF1).
		Str("language", language).
		Msg("answer evaluated")

	return dto.EvaluationResponse{
		QuestionID:       payload.QuestionID,
		Question:         payload.Question,
		ReferenceAnswer:  payload.ReferenceAnswer,
		StudentAnswer:    payload.StudentAnswer,
		Language:         language,
		JudgmentText:     judgment,
		Score:            score,
		OverlapUnigramF1: overlap.UnigramF1,
		OverlapLCSF1:     overlap.LCSF1,
	}, nil
}

// computeOverlap shields the evaluation from metric failures: any panic inside
// the calculator degrades to zero scores with a warning instead of losing the
// judgment.
func (s *evaluationService) computeOverlap(student, reference string) (scores textmetrics.Scores) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Interface("cause", r).Msg("overlap metric computation failed, using zero scores")
			scores = textmetrics.Scores{}
		}
	}()

	return s.overlap(student, reference)
}

// GenerateNoviceAnswer synthesizes a deliberately imperfect practice answer
// through the novice persona. It shares the completion client with the
// grading path but is not part of it.
func (s *evaluationService) GenerateNoviceAnswer(ctx context.Context, question string) (string, error) {
	tracer := otel.Tracer("github.com/evalab/grader-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.novice_answer")
	defer span.End()

	answer, err := s.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: noviceSystemPrompt,
		UserPrompt:   buildNovicePrompt(question),
		MaxTokens:    s.cfg.NoviceMaxTokens,
		Temperature:  s.cfg.NoviceTemperature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return "", err
	}

	return answer, nil
}
