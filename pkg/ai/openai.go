package ai

import (
	"context"
	"fmt"
	"math"
	"strconv"
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
	similarityDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scriba",
		Subsystem: "ai",
		Name:      "similarity_duration_seconds",
		Help:      "Duration of similarity oracle requests",
	}, []string{"model"})

	similarityFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriba",
		Subsystem: "ai",
		Name:      "similarity_failures_total",
		Help:      "Number of failed similarity oracle requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI similarity judge.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int
	Temperature    float32
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// OpenAIJudge implements SimilarityJudge against the OpenAI chat completion API.
type OpenAIJudge struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIJudge builds a similarity judge using the provided configuration.
func NewOpenAIJudge(cfg OpenAIConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 16
	}

	tracer := otel.Tracer("github.com/scribalabs/scriba-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIJudge{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// JudgeSimilarity asks the oracle to rate the semantic closeness between the
// transcript and the criterion description, parsing its reply as a decimal in
// [0,1]. Out-of-range replies are clamped.
func (j *OpenAIJudge) JudgeSimilarity(parent context.Context, transcript, description string) (float64, error) {
	ctx, span := j.tracer.Start(parent, "openai.similarity", trace.WithAttributes(
		attribute.String("model", j.cfg.Model),
	))
	defer span.End()

	if j.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       j.cfg.Model,
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: similaritySystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildSimilarityPrompt(transcript, description),
			},
		},
	}

	resp, err := j.client.CreateChatCompletion(ctx, request)
	similarityDuration.WithLabelValues(j.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		similarityFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("openai similarity: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		similarityFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	score, err := parseSimilarityScore(resp.Choices[0].Message.Content)
	if err != nil {
		similarityFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Float64("similarity.score", score))
	return score, nil
}

func similaritySystemPrompt() string {
	return "You compare a transcript against a scoring criterion. Reply with only a decimal number between 0 and 1 " +
		"indicating how well the transcript content matches the criterion. No words, no explanation."
}

func buildSimilarityPrompt(transcript, description string) string {
	builder := strings.Builder{}
	builder.WriteString("# Criterion\n")
	builder.WriteString(description)
	builder.WriteString("\n\n# Transcript\n")
	builder.WriteString(transcript)
	builder.WriteString("\n\nHow closely does the transcript match the criterion? Answer with a single decimal between 0 and 1.")
	return builder.String()
}

func parseSimilarityScore(content string) (float64, error) {
	trimmed := strings.TrimSpace(content)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse similarity reply %q: %w", trimmed, err)
	}

	if math.IsNaN(value) {
		return 0, fmt.Errorf("similarity reply %q is not a number", trimmed)
	}

	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	return value, nil
}
