package dto

import "time"

// Rollup row statuses.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusNotStarted = "not_started"
)

// Synthetic rollup scopes alongside real section IDs.
const (
	ScopeOtherCourses = "other_courses"
	ScopeUnassigned   = "unassigned"
)

type StudentDTO struct {
	StudentID  string     `json:"student_id"`
	FullName   string     `json:"full_name"`
	Persona    string     `json:"persona,omitempty"`
	SectionRef *string    `json:"section_id,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RosterDTO is the three-way partition of all students.
type RosterDTO struct {
	Assigned     []StudentDTO `json:"assigned"`
	OtherCourses []StudentDTO `json:"other_courses"`
	Unassigned   []StudentDTO `json:"unassigned"`
}

// RollupRowDTO is one attempt (status completed) or one synthetic row for a
// student with no evaluations yet.
type RollupRowDTO struct {
	StudentID    string     `json:"student_id"`
	FullName     string     `json:"full_name"`
	Persona      string     `json:"persona,omitempty"`
	Status       string     `json:"status"`
	EvaluationID *uint      `json:"evaluation_id,omitempty"`
	CaseID       *string    `json:"case_id,omitempty"`
	ScenarioID   *string    `json:"scenario_id,omitempty"`
	Score        *int       `json:"score,omitempty"`
	Hints        *int       `json:"hints,omitempty"`
	Helpful      *int       `json:"helpful,omitempty"`
	AllowRechat  *bool      `json:"allow_rechat,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// SectionStatsDTO summarizes a materialized rollup. Averages are nil when no
// completed row defines the field; they are never reported as zero in that
// situation.
type SectionStatsDTO struct {
	TotalRows         int      `json:"total_rows"`
	CompletedRows     int      `json:"completed_rows"`
	CompletionRate    float64  `json:"completion_rate"` // percent
	AvgScore          *float64 `json:"avg_score,omitempty"`
	AvgHints          *float64 `json:"avg_hints,omitempty"`
	AvgHelpful        *float64 `json:"avg_helpful,omitempty"`
	ScoreDistribution [16]int  `json:"score_distribution"` // slots for scores 0..15
}
