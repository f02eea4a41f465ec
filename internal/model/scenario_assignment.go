package model

import "time"

// ScenarioAssignment attaches a scenario to a (section, case) assignment at
// an explicit position. Rows are hard-deleted on unassign; evaluations that
// already reference the scenario are never touched.
type ScenarioAssignment struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	SectionID  string `json:"section_id" gorm:"not null;uniqueIndex:idx_section_case_scenario"`
	CaseID     string `json:"case_id" gorm:"not null;uniqueIndex:idx_section_case_scenario"`
	ScenarioID string `json:"scenario_id" gorm:"not null;uniqueIndex:idx_section_case_scenario"`
	Position   int    `json:"position" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
