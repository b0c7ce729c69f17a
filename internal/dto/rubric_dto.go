package dto

import (
	"time"

	"github.com/scribalabs/scriba-api/internal/models"
)

// RubricCreateRequest describes the payload for creating a scoring criterion.
type RubricCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"required,min=3"`
	Keywords    string  `json:"keywords"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	MinWords    int     `json:"min_words" validate:"gte=0"`
	MaxWords    int     `json:"max_words" validate:"gte=0"`
	Active      *bool   `json:"active"`
}

// RubricUpdateRequest describes a partial rubric update.
type RubricUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description" validate:"omitempty,min=3"`
	Keywords    *string  `json:"keywords"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	MinWords    *int     `json:"min_words" validate:"omitempty,gte=0"`
	MaxWords    *int     `json:"max_words" validate:"omitempty,gte=0"`
	Active      *bool    `json:"active"`
}

// RubricResponse is returned to API clients when viewing rubrics.
type RubricResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Keywords    string    `json:"keywords"`
	Weight      float64   `json:"weight"`
	MinWords    int       `json:"min_words"`
	MaxWords    int       `json:"max_words"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRubricResponse maps a rubric model to its API representation.
func NewRubricResponse(rubric models.Rubric) RubricResponse {
	return RubricResponse{
		ID:          rubric.ID,
		Name:        rubric.Name,
		Description: rubric.Description,
		Keywords:    rubric.Keywords,
		Weight:      rubric.Weight,
		MinWords:    rubric.MinWords,
		MaxWords:    rubric.MaxWords,
		Active:      rubric.Active,
		CreatedAt:   rubric.CreatedAt,
		UpdatedAt:   rubric.UpdatedAt,
	}
}
