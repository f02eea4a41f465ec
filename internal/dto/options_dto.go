package dto

// ChatOptionsDTO mirrors the fully-specified options record; it is never
// partial.
type ChatOptionsDTO struct {
	ChatModel      string  `json:"chat_model" binding:"required"`
	EvaluatorModel string  `json:"evaluator_model" binding:"required"`
	Temperature    float64 `json:"temperature"`
	MaxMessages    int     `json:"max_messages" binding:"required,min=1"`
	TimeLimitMin   *int    `json:"time_limit_min,omitempty"`
	HintsEnabled   bool    `json:"hints_enabled"`
	AllowRechat    bool    `json:"allow_rechat"`
}

// ResolvedOptionsDTO carries the effective options of an assignment together
// with where they came from, so the panel can render the inherit/custom
// toggle without the displayed values jumping.
type ResolvedOptionsDTO struct {
	SectionID string         `json:"section_id"`
	CaseID    string         `json:"case_id"`
	Source    string         `json:"source"` // custom | section_default | global_default | built_in
	Options   ChatOptionsDTO `json:"options"`
}

type SaveDefaultDTO struct {
	Scope   string         `json:"scope" binding:"required"` // "global" or a section ID
	Options ChatOptionsDTO `json:"options" binding:"required"`
}

// CopyResultDTO reports how many assignments a bulk copy touched.
type CopyResultDTO struct {
	TargetsUpdated int `json:"targets_updated"`
}
