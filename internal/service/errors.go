package service

import "errors"

// Not-found errors: the caller asked for a key that does not exist.
var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrCaseNotFound       = errors.New("case not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrScenarioNotFound   = errors.New("scenario not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrScopeNotFound      = errors.New("unknown rollup scope")
)

// Validation errors: rejected before anything is persisted.
var (
	ErrAssignmentExists = errors.New("case is already assigned to this section")
	ErrScenarioAssigned = errors.New("scenario is already assigned")
	ErrScenarioCase     = errors.New("scenario does not belong to this case")
	ErrOrderNeedsAllReq = errors.New("require_order is only valid with selection_mode all_required")
	ErrBadSelectionMode = errors.New("invalid selection_mode")
	ErrBadManualStatus  = errors.New("invalid manual_status")
	ErrBadDateWindow    = errors.New("close_date must be after open_date")
	ErrBadDefaultScope  = errors.New("invalid default scope")
)
