package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "completion_duration_seconds",
		Help:      "Duration of completion requests to the judgment model",
	}, []string{"model"})

	completionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "completion_failures_total",
		Help:      "Number of failed completion requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI completion client.
type OpenAIConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// OpenAIChat implements Completer against the OpenAI chat completion API. The
// underlying client is read-only after construction and safe to share across
// concurrent evaluations.
type OpenAIChat struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIChat builds a completion client using the provided configuration.
// A missing API key is a configuration error.
func NewOpenAIChat(cfg OpenAIConfig) (*OpenAIChat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	tracer := otel.Tracer("github.com/evalab/grader-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIChat{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Complete sends one chat completion request and returns the generated text.
func (c *OpenAIChat) Complete(parent context.Context, req CompletionRequest) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.Int("max_tokens", req.MaxTokens),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	completionDuration.WithLabelValues(c.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		completionFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &CompletionError{Provider: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		failure := &CompletionError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
		completionFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		return "", failure
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		failure := &CompletionError{Provider: "openai", Err: fmt.Errorf("empty completion content")}
		completionFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		return "", failure
	}

	c.logger.Debug().
		Str("model", c.cfg.Model).
		Int("content_length", len(content)).
		Dur("duration", duration).
		Msg("completion returned")

	return content, nil
}
