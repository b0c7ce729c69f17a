package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scribalabs/scriba-api/internal/models"
)

// RubricRepository defines data operations for scoring rubrics.
type RubricRepository interface {
	// ListActive returns every rubric flagged active, ordered by name.
	ListActive(ctx context.Context) ([]models.Rubric, error)
	List(ctx context.Context) ([]models.Rubric, error)
	GetByID(ctx context.Context, id uint) (models.Rubric, error)
	Create(ctx context.Context, rubric *models.Rubric) error
	Update(ctx context.Context, rubric *models.Rubric) error
	Delete(ctx context.Context, id uint) error
}

type rubricRepository struct {
	db *gorm.DB
}

// NewRubricRepository instantiates the repository.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

func (r *rubricRepository) ListActive(ctx context.Context) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rubrics).Error; err != nil {
		return nil, err
	}

	return rubrics, nil
}

func (r *rubricRepository) List(ctx context.Context) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rubrics).Error; err != nil {
		return nil, err
	}

	return rubrics, nil
}

func (r *rubricRepository) GetByID(ctx context.Context, id uint) (models.Rubric, error) {
	var rubric models.Rubric
	if err := r.db.WithContext(ctx).First(&rubric, id).Error; err != nil {
		return models.Rubric{}, err
	}

	return rubric, nil
}

func (r *rubricRepository) Create(ctx context.Context, rubric *models.Rubric) error {
	return r.db.WithContext(ctx).Create(rubric).Error
}

func (r *rubricRepository) Update(ctx context.Context, rubric *models.Rubric) error {
	return r.db.WithContext(ctx).Save(rubric).Error
}

func (r *rubricRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Rubric{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
