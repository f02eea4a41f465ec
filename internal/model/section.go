package model

import (
	"time"

	"gorm.io/gorm"
)

type Section struct {
	ID                    uint           `gorm:"primarykey" json:"id"`
	SectionID             string         `json:"section_id" gorm:"not null;uniqueIndex"` // public key, e.g. "sec-..."
	Title                 string         `json:"title" gorm:"not null"`
	YearTerm              string         `json:"year_term" gorm:"not null"` // "2026-spring"
	Enabled               bool           `json:"enabled" gorm:"default:true"`
	AcceptNewStudents     bool           `json:"accept_new_students" gorm:"default:true"`
	DefaultChatModel      string         `json:"default_chat_model"`
	DefaultEvaluatorModel string         `json:"default_evaluator_model"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}
