package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/models"
	"github.com/scribalabs/scriba-api/internal/repository"
)

// ErrRubricNotFound indicates the rubric was not located.
var ErrRubricNotFound = errors.New("rubric not found")

// ErrInvalidWordRange indicates max_words is neither zero nor at least min_words.
var ErrInvalidWordRange = errors.New("max_words must be zero or at least min_words")

// RubricService manages the scoring criteria catalogue.
type RubricService interface {
	List(ctx context.Context) ([]dto.RubricResponse, error)
	Get(ctx context.Context, id uint) (dto.RubricResponse, error)
	Create(ctx context.Context, payload dto.RubricCreateRequest) (dto.RubricResponse, error)
	Update(ctx context.Context, id uint, payload dto.RubricUpdateRequest) (dto.RubricResponse, error)
	Delete(ctx context.Context, id uint) error
}

type rubricService struct {
	repo      repository.RubricRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewRubricService constructs the rubric service.
func NewRubricService(repo repository.RubricRepository, validate *validator.Validate, logger zerolog.Logger) RubricService {
	return &rubricService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "rubric_service").Logger(),
	}
}

func (s *rubricService) List(ctx context.Context) ([]dto.RubricResponse, error) {
	rubrics, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RubricResponse, 0, len(rubrics))
	for _, rubric := range rubrics {
		responses = append(responses, dto.NewRubricResponse(rubric))
	}
	return responses, nil
}

func (s *rubricService) Get(ctx context.Context, id uint) (dto.RubricResponse, error) {
	rubric, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RubricResponse{}, ErrRubricNotFound
		}
		return dto.RubricResponse{}, err
	}

	return dto.NewRubricResponse(rubric), nil
}

func (s *rubricService) Create(ctx context.Context, payload dto.RubricCreateRequest) (dto.RubricResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RubricResponse{}, err
	}

	if err := validateWordRange(payload.MinWords, payload.MaxWords); err != nil {
		return dto.RubricResponse{}, err
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	rubric := models.Rubric{
		Name:        s.clean(payload.Name),
		Description: s.clean(payload.Description),
		Keywords:    s.clean(payload.Keywords),
		Weight:      payload.Weight,
		MinWords:    payload.MinWords,
		MaxWords:    payload.MaxWords,
		Active:      active,
	}

	if err := s.repo.Create(ctx, &rubric); err != nil {
		return dto.RubricResponse{}, err
	}

	s.logger.Info().Uint("rubric_id", rubric.ID).Str("name", rubric.Name).Msg("rubric created")
	return dto.NewRubricResponse(rubric), nil
}

func (s *rubricService) Update(ctx context.Context, id uint, payload dto.RubricUpdateRequest) (dto.RubricResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RubricResponse{}, err
	}

	rubric, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RubricResponse{}, ErrRubricNotFound
		}
		return dto.RubricResponse{}, err
	}

	if payload.Name != nil {
		rubric.Name = s.clean(*payload.Name)
	}
	if payload.Description != nil {
		rubric.Description = s.clean(*payload.Description)
	}
	if payload.Keywords != nil {
		rubric.Keywords = s.clean(*payload.Keywords)
	}
	if payload.Weight != nil {
		rubric.Weight = *payload.Weight
	}
	if payload.MinWords != nil {
		rubric.MinWords = *payload.MinWords
	}
	if payload.MaxWords != nil {
		rubric.MaxWords = *payload.MaxWords
	}
	if payload.Active != nil {
		rubric.Active = *payload.Active
	}

	if err := validateWordRange(rubric.MinWords, rubric.MaxWords); err != nil {
		return dto.RubricResponse{}, err
	}

	if err := s.repo.Update(ctx, &rubric); err != nil {
		return dto.RubricResponse{}, err
	}

	return dto.NewRubricResponse(rubric), nil
}

func (s *rubricService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRubricNotFound
		}
		return err
	}

	s.logger.Info().Uint("rubric_id", id).Msg("rubric deleted")
	return nil
}

func (s *rubricService) clean(input string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(input))
}

// validateWordRange enforces max_words >= min_words, with 0 standing for an
// unset cap.
func validateWordRange(minWords, maxWords int) error {
	if maxWords != 0 && maxWords < minWords {
		return ErrInvalidWordRange
	}
	return nil
}
