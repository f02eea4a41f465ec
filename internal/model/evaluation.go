package model

import "time"

// Evaluation is one scored attempt. Rows are append-only: a student with
// re-chat enabled accumulates one row per attempt, ordered by CreatedAt.
// AllowRechat is the only field mutable after creation.
type Evaluation struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	StudentID  string  `json:"student_id" gorm:"not null;index"`
	CaseID     *string `json:"case_id,omitempty" gorm:"index"`
	ScenarioID *string `json:"scenario_id,omitempty" gorm:"index"`

	Score      *int   `json:"score,omitempty"`   // 0..15
	Hints      *int   `json:"hints,omitempty"`   // hints consumed during the chat
	Helpful    *int   `json:"helpful,omitempty"` // student-reported helpfulness
	Criteria   string `json:"criteria,omitempty" gorm:"type:text"` // per-criterion feedback, JSON
	Transcript string `json:"transcript,omitempty" gorm:"type:text"`

	AllowRechat bool `json:"allow_rechat" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
}
