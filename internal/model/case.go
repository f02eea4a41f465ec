package model

import (
	"time"

	"gorm.io/gorm"
)

// Case is one case study: the persona the student talks to plus the
// rubric the evaluator scores the conversation against.
type Case struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CaseID      string         `json:"case_id" gorm:"not null;uniqueIndex"` // public key
	Title       string         `json:"title" gorm:"not null"`
	Protagonist string         `json:"protagonist" gorm:"not null"`
	Prompt      string         `json:"prompt" gorm:"type:text;not null"`
	Rubric      string         `json:"rubric,omitempty" gorm:"type:text"`
	Enabled     bool           `json:"enabled" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
