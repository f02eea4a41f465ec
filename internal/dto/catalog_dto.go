package dto

import "time"

// --- Sections ---

type SectionCreateDTO struct {
	Title                 string `json:"title" binding:"required"`
	YearTerm              string `json:"year_term" binding:"required"`
	AcceptNewStudents     bool   `json:"accept_new_students"`
	DefaultChatModel      string `json:"default_chat_model"`
	DefaultEvaluatorModel string `json:"default_evaluator_model"`
}

type SectionUpdateDTO struct {
	Title                 *string `json:"title,omitempty"`
	YearTerm              *string `json:"year_term,omitempty"`
	Enabled               *bool   `json:"enabled,omitempty"`
	AcceptNewStudents     *bool   `json:"accept_new_students,omitempty"`
	DefaultChatModel      *string `json:"default_chat_model,omitempty"`
	DefaultEvaluatorModel *string `json:"default_evaluator_model,omitempty"`
}

type SectionResponseDTO struct {
	SectionID             string    `json:"section_id"`
	Title                 string    `json:"title"`
	YearTerm              string    `json:"year_term"`
	Enabled               bool      `json:"enabled"`
	AcceptNewStudents     bool      `json:"accept_new_students"`
	DefaultChatModel      string    `json:"default_chat_model,omitempty"`
	DefaultEvaluatorModel string    `json:"default_evaluator_model,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// --- Cases ---

type CaseCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Protagonist string `json:"protagonist" binding:"required"`
	Prompt      string `json:"prompt" binding:"required"`
	Rubric      string `json:"rubric"`
}

type CaseUpdateDTO struct {
	Title       *string `json:"title,omitempty"`
	Protagonist *string `json:"protagonist,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
	Rubric      *string `json:"rubric,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

type CaseResponseDTO struct {
	CaseID      string    `json:"case_id"`
	Title       string    `json:"title"`
	Protagonist string    `json:"protagonist"`
	Prompt      string    `json:"prompt"`
	Rubric      string    `json:"rubric,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
}
