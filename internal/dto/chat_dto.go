package dto

import "time"

// AdmissionRequestDTO asks whether a student may begin a new attempt now.
type AdmissionRequestDTO struct {
	SectionID  string  `json:"section_id" binding:"required"`
	CaseID     string  `json:"case_id" binding:"required"`
	StudentID  string  `json:"student_id" binding:"required"`
	ScenarioID *string `json:"scenario_id,omitempty"`
}

// AdmissionDecisionDTO is the chat runtime's admission verdict. Options and
// the effective time limit are only meaningful when Allowed is true.
type AdmissionDecisionDTO struct {
	Allowed      bool            `json:"allowed"`
	Reason       string          `json:"reason,omitempty"`
	Options      *ChatOptionsDTO `json:"options,omitempty"`
	TimeLimitMin *int            `json:"time_limit_min,omitempty"`
}

// ChatFinishedDTO marks the end of a chat. An evaluation may or may not
// follow; until one does, the student reports as in_progress.
type ChatFinishedDTO struct {
	StudentID  string     `json:"student_id" binding:"required"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// EvaluationSubmitDTO hands a finished transcript to the evaluator.
type EvaluationSubmitDTO struct {
	StudentID  string  `json:"student_id" binding:"required"`
	SectionID  string  `json:"section_id" binding:"required"`
	CaseID     string  `json:"case_id" binding:"required"`
	ScenarioID *string `json:"scenario_id,omitempty"`
	Transcript string  `json:"transcript" binding:"required"`
	Hints      *int    `json:"hints,omitempty"`
	Helpful    *int    `json:"helpful,omitempty"`
}

type EvaluationResponseDTO struct {
	ID          uint      `json:"id"`
	StudentID   string    `json:"student_id"`
	CaseID      *string   `json:"case_id,omitempty"`
	ScenarioID  *string   `json:"scenario_id,omitempty"`
	Score       *int      `json:"score,omitempty"`
	Hints       *int      `json:"hints,omitempty"`
	Helpful     *int      `json:"helpful,omitempty"`
	Criteria    string    `json:"criteria,omitempty"`
	AllowRechat bool      `json:"allow_rechat"`
	CreatedAt   time.Time `json:"created_at"`
}

type AllowRechatDTO struct {
	AllowRechat bool `json:"allow_rechat"`
}
