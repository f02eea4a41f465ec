package model

import (
	"time"

	"gorm.io/gorm"
)

// Scenario is a persona/time-limit variant of a case.
type Scenario struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	ScenarioID   string         `json:"scenario_id" gorm:"not null;uniqueIndex"` // public key
	CaseID       string         `json:"case_id" gorm:"not null;index"`
	Name         string         `json:"name" gorm:"not null"`
	Protagonist  string         `json:"protagonist"`
	TimeLimitMin *int           `json:"time_limit_min,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
