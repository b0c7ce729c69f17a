package models

import "time"

// Rubric is a stored scoring criterion. Keywords holds a comma- or
// semicolon-delimited list of expected words and phrases; a MaxWords of 0
// marks a degenerate cap rather than an open-ended range.
type Rubric struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Keywords    string    `gorm:"type:text" json:"keywords"`
	Weight      float64   `gorm:"not null;default:1" json:"weight"`
	MinWords    int       `gorm:"not null;default:0" json:"min_words"`
	MaxWords    int       `gorm:"not null;default:0" json:"max_words"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
