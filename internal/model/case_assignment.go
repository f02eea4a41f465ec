package model

import (
	"time"
)

// Manual availability override on a CaseAssignment.
const (
	ManualAuto   = "auto"
	ManualOpened = "manually_opened"
	ManualClosed = "manually_closed"
)

// Scenario selection modes.
const (
	SelectionStudentChoice = "student_choice"
	SelectionAllRequired   = "all_required"
)

// CaseAssignment pairs a case with a section. At most one row exists per
// (section, case) pair, and at most one assignment per section is Active
// (the section's current default case). Rows are hard-deleted on unassign.
type CaseAssignment struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	SectionID string `json:"section_id" gorm:"not null;uniqueIndex:idx_section_case"`
	CaseID    string `json:"case_id" gorm:"not null;uniqueIndex:idx_section_case"`
	Active    bool   `json:"active" gorm:"default:false"`

	// nil means "inherit from defaults"; non-nil is always a complete record.
	ChatOptions *ChatOptions `json:"chat_options,omitempty" gorm:"type:jsonb;serializer:json"`

	OpenDate     *time.Time `json:"open_date,omitempty"`
	CloseDate    *time.Time `json:"close_date,omitempty"`
	ManualStatus string     `json:"manual_status" gorm:"not null;default:'auto'"`

	UseScenarios  bool   `json:"use_scenarios" gorm:"default:false"`
	SelectionMode string `json:"selection_mode" gorm:"not null;default:'student_choice'"`
	RequireOrder  bool   `json:"require_order" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
