package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/models"
	"github.com/scribalabs/scriba-api/internal/observability"
	"github.com/scribalabs/scriba-api/internal/repository"
	"github.com/scribalabs/scriba-api/internal/scoring"
)

// ErrEmptyTranscript indicates the request carried no scoreable text.
var ErrEmptyTranscript = errors.New("transcript must not be empty")

// ErrNoActiveRubrics indicates scoring was requested with no active rubric configured.
var ErrNoActiveRubrics = errors.New("no active rubrics are configured")

// ErrScoreNotFound indicates the stored score was not located.
var ErrScoreNotFound = errors.New("score not found")

// ErrUnsupportedFileType indicates an uploaded transcript is not plain text.
var ErrUnsupportedFileType = errors.New("uploaded transcript must be a plain text file")

// ErrFileTooLarge indicates an uploaded transcript exceeds the size limit.
var ErrFileTooLarge = errors.New("uploaded transcript exceeds the size limit")

const recentScoresCacheKey = "scores:recent"

const defaultScorePageSize = 10

// EventPublisher publishes scored-transcript events. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// ScoredEvent is the payload published after a transcript has been scored.
type ScoredEvent struct {
	ScoreID      uint      `json:"score_id"`
	OverallScore float64   `json:"overall_score"`
	WordCount    int       `json:"word_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type recentScoresPayload struct {
	Items []dto.ScoreSummaryResponse `json:"items"`
	Total int64                      `json:"total"`
}

// ScoringService runs transcripts through the scoring engine and manages the
// stored results.
type ScoringService interface {
	Score(ctx context.Context, payload dto.ScoreRequest) (dto.ScoreResponse, error)
	ScoreUpload(ctx context.Context, file *multipart.FileHeader) (dto.ScoreResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.ScoreSummaryResponse, int64, error)
	Get(ctx context.Context, id uint) (dto.ScoreResponse, error)
}

type scoringService struct {
	rubrics        repository.RubricRepository
	scores         repository.ScoreRepository
	engine         *scoring.Engine
	validator      *validator.Validate
	sanitizer      *bluemonday.Policy
	cache          *redis.Client
	cacheTTL       time.Duration
	events         EventPublisher
	eventSubject   string
	uploadMaxBytes int64
	logger         zerolog.Logger
}

// NewScoringService constructs the scoring service. cache and events may be
// nil; the service then skips caching and event publishing.
func NewScoringService(
	rubrics repository.RubricRepository,
	scores repository.ScoreRepository,
	engine *scoring.Engine,
	validate *validator.Validate,
	cache *redis.Client,
	cacheTTL time.Duration,
	events EventPublisher,
	eventSubject string,
	uploadMaxBytes int64,
	logger zerolog.Logger,
) ScoringService {
	if uploadMaxBytes <= 0 {
		uploadMaxBytes = 1 << 20
	}

	return &scoringService{
		rubrics:        rubrics,
		scores:         scores,
		engine:         engine,
		validator:      validate,
		sanitizer:      bluemonday.StrictPolicy(),
		cache:          cache,
		cacheTTL:       cacheTTL,
		events:         events,
		eventSubject:   eventSubject,
		uploadMaxBytes: uploadMaxBytes,
		logger:         logger.With().Str("component", "scoring_service").Logger(),
	}
}

func (s *scoringService) Score(ctx context.Context, payload dto.ScoreRequest) (dto.ScoreResponse, error) {
	tracer := otel.Tracer("github.com/scribalabs/scriba-api/internal/service/scoring")
	ctx, span := tracer.Start(ctx, "scoring.score")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ScoreResponse{}, err
	}

	// Markup is stripped before tokenization so tag names never count as words.
	transcript := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(payload.Transcript)))
	if transcript == "" {
		span.SetStatus(codes.Error, "empty_transcript")
		return dto.ScoreResponse{}, ErrEmptyTranscript
	}

	rubrics, err := s.rubrics.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rubric_source_failed")
		return dto.ScoreResponse{}, fmt.Errorf("load active rubrics: %w", err)
	}
	if len(rubrics) == 0 {
		span.SetStatus(codes.Error, "no_active_rubrics")
		return dto.ScoreResponse{}, ErrNoActiveRubrics
	}

	result, err := s.engine.Score(ctx, transcript, toScoringRubrics(rubrics))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "engine_failed")
		return dto.ScoreResponse{}, err
	}

	criteria := dto.NewCriterionResults(result.Criteria)
	breakdown, err := json.Marshal(criteria)
	if err != nil {
		span.RecordError(err)
		return dto.ScoreResponse{}, fmt.Errorf("marshal score breakdown: %w", err)
	}

	record := models.ScoreRecord{
		Transcript:   transcript,
		OverallScore: result.OverallScore,
		WordCount:    result.WordCount,
		Breakdown:    breakdown,
	}
	if err := s.scores.Create(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score_persist_failed")
		return dto.ScoreResponse{}, fmt.Errorf("persist score: %w", err)
	}

	observability.ScoresComputedTotal().Inc()
	s.invalidateRecentCache(ctx)
	s.publishScored(record)

	span.SetAttributes(
		attribute.Float64("score.overall", result.OverallScore),
		attribute.Int("score.word_count", result.WordCount),
		attribute.Int("score.rubrics", len(rubrics)),
	)

	return dto.ScoreResponse{
		ID:           record.ID,
		OverallScore: record.OverallScore,
		WordCount:    record.WordCount,
		Criteria:     criteria,
		CreatedAt:    record.CreatedAt,
	}, nil
}

func (s *scoringService) ScoreUpload(ctx context.Context, file *multipart.FileHeader) (dto.ScoreResponse, error) {
	if file == nil {
		return dto.ScoreResponse{}, ErrEmptyTranscript
	}
	if file.Size > s.uploadMaxBytes {
		return dto.ScoreResponse{}, ErrFileTooLarge
	}

	reader, err := file.Open()
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("open uploaded transcript: %w", err)
	}
	defer reader.Close()

	content, err := io.ReadAll(io.LimitReader(reader, s.uploadMaxBytes+1))
	if err != nil {
		return dto.ScoreResponse{}, fmt.Errorf("read uploaded transcript: %w", err)
	}
	if int64(len(content)) > s.uploadMaxBytes {
		return dto.ScoreResponse{}, ErrFileTooLarge
	}

	if !isPlainText(mimetype.Detect(content)) {
		return dto.ScoreResponse{}, ErrUnsupportedFileType
	}

	return s.Score(ctx, dto.ScoreRequest{Transcript: string(content)})
}

func (s *scoringService) List(ctx context.Context, page, pageSize int) ([]dto.ScoreSummaryResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultScorePageSize
	}

	useCache := s.cache != nil && page == 1 && pageSize == defaultScorePageSize
	if useCache {
		if cached, err := s.cache.Get(ctx, recentScoresCacheKey).Result(); err == nil {
			var payload recentScoresPayload
			if unmarshalErr := json.Unmarshal([]byte(cached), &payload); unmarshalErr == nil {
				s.logger.Debug().Msg("recent scores cache hit")
				return payload.Items, payload.Total, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read recent scores cache")
		}
	}

	records, total, err := s.scores.List(ctx, repository.ScoreFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]dto.ScoreSummaryResponse, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, dto.ScoreSummaryResponse{
			ID:           record.ID,
			OverallScore: record.OverallScore,
			WordCount:    record.WordCount,
			CreatedAt:    record.CreatedAt,
		})
	}

	if useCache {
		if payload, err := json.Marshal(recentScoresPayload{Items: summaries, Total: total}); err == nil {
			if err := s.cache.Set(ctx, recentScoresCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store recent scores cache")
			}
		}
	}

	return summaries, total, nil
}

func (s *scoringService) Get(ctx context.Context, id uint) (dto.ScoreResponse, error) {
	record, err := s.scores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	var criteria []dto.CriterionResultResponse
	if len(record.Breakdown) > 0 {
		if err := json.Unmarshal(record.Breakdown, &criteria); err != nil {
			return dto.ScoreResponse{}, fmt.Errorf("unmarshal score breakdown: %w", err)
		}
	}

	return dto.ScoreResponse{
		ID:           record.ID,
		OverallScore: record.OverallScore,
		WordCount:    record.WordCount,
		Criteria:     criteria,
		CreatedAt:    record.CreatedAt,
	}, nil
}

func (s *scoringService) invalidateRecentCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, recentScoresCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate recent scores cache")
	}
}

func (s *scoringService) publishScored(record models.ScoreRecord) {
	if s.events == nil || s.eventSubject == "" {
		return
	}

	payload, err := json.Marshal(ScoredEvent{
		ScoreID:      record.ID,
		OverallScore: record.OverallScore,
		WordCount:    record.WordCount,
		CreatedAt:    record.CreatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal scored event")
		return
	}

	if err := s.events.Publish(s.eventSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("score_id", record.ID).Msg("failed to publish scored event")
		return
	}

	observability.ScoredEventsPublishedTotal().Inc()
}

func toScoringRubrics(rubrics []models.Rubric) []scoring.Rubric {
	converted := make([]scoring.Rubric, 0, len(rubrics))
	for _, rubric := range rubrics {
		converted = append(converted, scoring.Rubric{
			Name:        rubric.Name,
			Description: rubric.Description,
			Keywords:    rubric.Keywords,
			Weight:      rubric.Weight,
			MinWords:    rubric.MinWords,
			MaxWords:    rubric.MaxWords,
		})
	}
	return converted
}

func isPlainText(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
