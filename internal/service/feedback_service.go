package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/evalab/grader-api/internal/dto"
	"github.com/evalab/grader-api/pkg/ai"
	"github.com/evalab/grader-api/pkg/evallog"
)

// Sentiment labels reported for caller feedback.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

const sentimentSystemPrompt = "You are a sentiment classifier. Given a piece of user feedback, respond with " +
	"a JSON object of the exact shape {\"label\": \"POSITIVE\"|\"NEGATIVE\"|\"NEUTRAL\", \"score\": <confidence 0-1>}. " +
	"Respond with JSON only, no prose."

// FeedbackConfig carries the sentiment tunables. Scores inside the neutral
// band are reported as NEUTRAL regardless of the classifier's label.
type FeedbackConfig struct {
	NeutralBandLow  float64
	NeutralBandHigh float64
	MaxTokens       int
}

// FeedbackService records caller feedback about a finished evaluation,
// classifying its sentiment and appending the flattened record to the
// evaluation log.
type FeedbackService interface {
	Record(ctx context.Context, payload dto.FeedbackRequest) (dto.SentimentResponse, error)
	AnalyzeSentiment(ctx context.Context, text string) dto.SentimentResponse
}

type feedbackService struct {
	completer ai.Completer
	log       *evallog.Writer
	validator *validator.Validate
	logger    zerolog.Logger
	cfg       FeedbackConfig
	now       func() time.Time
}

// NewFeedbackService constructs the feedback recorder.
func NewFeedbackService(completer ai.Completer, log *evallog.Writer, validator *validator.Validate, logger zerolog.Logger, cfg FeedbackConfig) FeedbackService {
	if cfg.NeutralBandLow <= 0 && cfg.NeutralBandHigh <= 0 {
		cfg.NeutralBandLow, cfg.NeutralBandHigh = 0.4, 0.6
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 60
	}

	return &feedbackService{
		completer: completer,
		log:       log,
		validator: validator,
		logger:    logger.With().Str("component", "feedback_service").Logger(),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *feedbackService) Record(ctx context.Context, payload dto.FeedbackRequest) (dto.SentimentResponse, error) {
	tracer := otel.Tracer("github.com/evalab/grader-api/internal/service/feedback")
	ctx, span := tracer.Start(ctx, "feedback.record")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SentimentResponse{}, err
	}

	sentiment := s.AnalyzeSentiment(ctx, payload.Text)
	span.SetAttributes(
		attribute.String("feedback.sentiment", sentiment.Label),
		attribute.Float64("feedback.sentiment_score", sentiment.Score),
	)

	tags := payload.Tags
	if tags == nil {
		tags = []string{}
	}

	record := dto.EvaluationLogRecord{
		Timestamp:        s.now().UTC(),
		QuestionID:       payload.Evaluation.QuestionID,
		Question:         payload.Evaluation.Question,
		ReferenceAnswer:  payload.Evaluation.ReferenceAnswer,
		StudentAnswer:    payload.Evaluation.StudentAnswer,
		Language:         payload.Evaluation.Language,
		JudgmentText:     payload.Evaluation.JudgmentText,
		Score:            payload.Evaluation.Score,
		OverlapUnigramF1: payload.Evaluation.OverlapUnigramF1,
		OverlapLCSF1:     payload.Evaluation.OverlapLCSF1,
		FeedbackTags:     tags,
		FeedbackText:     payload.Text,
		SentimentLabel:   sentiment.Label,
		SentimentScore:   sentiment.Score,
	}

	if err := s.log.Append(record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "log_append_failed")
		return dto.SentimentResponse{}, err
	}

	s.logger.Info().
		Str("sentiment", sentiment.Label).
		Int("score", payload.Evaluation.Score).
		Msg("feedback recorded")

	return sentiment, nil
}

// AnalyzeSentiment classifies the feedback text. It never fails: empty text,
// classifier errors, and malformed classifier output all resolve to the fixed
// neutral default.
func (s *feedbackService) AnalyzeSentiment(ctx context.Context, text string) dto.SentimentResponse {
	neutral := dto.SentimentResponse{Label: SentimentNeutral, Score: 0.5}

	if strings.TrimSpace(text) == "" {
		return neutral
	}

	raw, err := s.completer.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: sentimentSystemPrompt,
		UserPrompt:   text,
		MaxTokens:    s.cfg.MaxTokens,
		Temperature:  0,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("sentiment classification unavailable, using neutral default")
		return neutral
	}

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &parsed); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable sentiment response, using neutral default")
		return neutral
	}

	label := normalizeSentimentLabel(parsed.Label)
	score := parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	// Mid-confidence readings are not a usable signal either way.
	if score >= s.cfg.NeutralBandLow && score <= s.cfg.NeutralBandHigh {
		label = SentimentNeutral
	}

	return dto.SentimentResponse{Label: label, Score: score}
}

func normalizeSentimentLabel(label string) string {
	upper := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case upper == SentimentPositive || upper == SentimentNegative || upper == SentimentNeutral:
		return upper
	case strings.Contains(upper, "POS"):
		return SentimentPositive
	case strings.Contains(upper, "NEG"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// extractJSONObject tolerates replies that wrap the JSON object in code fences
// or stray prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
