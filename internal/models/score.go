package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScoreRecord stores the outcome of one transcript scoring run. Breakdown
// holds the full per-criterion result list as JSON.
type ScoreRecord struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Transcript   string         `gorm:"type:text;not null" json:"transcript"`
	OverallScore float64        `gorm:"not null" json:"overall_score"`
	WordCount    int            `gorm:"not null" json:"word_count"`
	Breakdown    datatypes.JSON `json:"breakdown"`
	CreatedAt    time.Time      `json:"created_at"`
}
