package dto

import "time"

type AssignmentCreateDTO struct {
	CaseID        string     `json:"case_id" binding:"required"`
	OpenDate      *time.Time `json:"open_date,omitempty"`
	CloseDate     *time.Time `json:"close_date,omitempty"`
	UseScenarios  bool       `json:"use_scenarios"`
	SelectionMode string     `json:"selection_mode,omitempty"`
	RequireOrder  bool       `json:"require_order"`
}

// AssignmentUpdateDTO updates scheduling and scenario settings. Options are
// edited through the dedicated options endpoints.
type AssignmentUpdateDTO struct {
	OpenDate      *time.Time `json:"open_date,omitempty"`
	CloseDate     *time.Time `json:"close_date,omitempty"`
	ClearDates    bool       `json:"clear_dates,omitempty"`
	UseScenarios  *bool      `json:"use_scenarios,omitempty"`
	SelectionMode *string    `json:"selection_mode,omitempty"`
	RequireOrder  *bool      `json:"require_order,omitempty"`
}

type ManualStatusDTO struct {
	ManualStatus string `json:"manual_status" binding:"required"` // auto | manually_opened | manually_closed
}

type AssignmentResponseDTO struct {
	SectionID     string     `json:"section_id"`
	CaseID        string     `json:"case_id"`
	Active        bool       `json:"active"`
	OpenDate      *time.Time `json:"open_date,omitempty"`
	CloseDate     *time.Time `json:"close_date,omitempty"`
	ManualStatus  string     `json:"manual_status"`
	UseScenarios  bool       `json:"use_scenarios"`
	SelectionMode string     `json:"selection_mode"`
	RequireOrder  bool       `json:"require_order"`
	Available     bool       `json:"available"`      // as of the request instant
	OptionsSource string     `json:"options_source"` // custom | section_default | global_default | built_in
}

// --- Scenarios ---

type ScenarioCreateDTO struct {
	CaseID       string `json:"case_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Protagonist  string `json:"protagonist"`
	TimeLimitMin *int   `json:"time_limit_min,omitempty"`
}

type ScenarioResponseDTO struct {
	ScenarioID   string `json:"scenario_id"`
	CaseID       string `json:"case_id"`
	Name         string `json:"name"`
	Protagonist  string `json:"protagonist,omitempty"`
	TimeLimitMin *int   `json:"time_limit_min,omitempty"`
}

type ScenarioAssignDTO struct {
	ScenarioID string `json:"scenario_id" binding:"required"`
}

// ScenarioReorderDTO lists every assigned scenario ID in its new order.
type ScenarioReorderDTO struct {
	ScenarioIDs []string `json:"scenario_ids" binding:"required,min=1"`
}

// EligibleScenarioDTO is one entry of the per-student eligibility view.
type EligibleScenarioDTO struct {
	ScenarioID   string `json:"scenario_id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Eligible     bool   `json:"eligible"`
	Completed    bool   `json:"completed"`
	TimeLimitMin *int   `json:"time_limit_min,omitempty"`
}
