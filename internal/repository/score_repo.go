package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/scribalabs/scriba-api/internal/models"
)

// ScoreFilter narrows and paginates score record listings.
type ScoreFilter struct {
	Page     int
	PageSize int
}

// ScoreRepository defines data operations for stored scoring results.
type ScoreRepository interface {
	Create(ctx context.Context, record *models.ScoreRecord) error
	// List returns score records newest first along with the total count.
	List(ctx context.Context, filter ScoreFilter) ([]models.ScoreRecord, int64, error)
	GetByID(ctx context.Context, id uint) (models.ScoreRecord, error)
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository instantiates the repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Create(ctx context.Context, record *models.ScoreRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *scoreRepository) List(ctx context.Context, filter ScoreFilter) ([]models.ScoreRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ScoreRecord{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var records []models.ScoreRecord
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *scoreRepository) GetByID(ctx context.Context, id uint) (models.ScoreRecord, error) {
	var record models.ScoreRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return models.ScoreRecord{}, err
	}

	return record, nil
}
