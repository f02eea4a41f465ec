package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AvailabilityService answers a single question: may a new attempt on this
// assignment begin at instant `now`? An attempt already in progress when the
// window closes is the chat runtime's business, not this gate's.
type AvailabilityService interface {
	// Available is pure in (assignment, now). It must be recomputed on
	// every call; memoizing it across time would be wrong.
	Available(assignment *model.CaseAssignment, now time.Time) bool
	CheckPair(sectionID, caseID string, now time.Time) (bool, error)
	SetManualStatus(sectionID, caseID, status string) error
}

type availabilityService struct {
	assignmentRepo repository.CaseAssignmentRepository
}

func NewAvailabilityService(assignmentRepo repository.CaseAssignmentRepository) AvailabilityService {
	return &availabilityService{assignmentRepo: assignmentRepo}
}

func (s *availabilityService) Available(assignment *model.CaseAssignment, now time.Time) bool {
	switch assignment.ManualStatus {
	case model.ManualOpened:
		return true
	case model.ManualClosed:
		return false
	}

	// auto: open boundary inclusive, close boundary exclusive.
	if assignment.OpenDate != nil && now.Before(*assignment.OpenDate) {
		return false
	}
	if assignment.CloseDate != nil && !now.Before(*assignment.CloseDate) {
		return false
	}
	return true
}

func (s *availabilityService) CheckPair(sectionID, caseID string, now time.Time) (bool, error) {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return false, fmt.Errorf("error fetching assignment: %w", err)
	}
	return s.Available(assignment, now), nil
}

func (s *availabilityService) SetManualStatus(sectionID, caseID, status string) error {
	switch status {
	case model.ManualAuto, model.ManualOpened, model.ManualClosed:
	default:
		return fmt.Errorf("%w: %s", ErrBadManualStatus, status)
	}

	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return fmt.Errorf("error fetching assignment: %w", err)
	}
	assignment.ManualStatus = status
	if err := s.assignmentRepo.Update(assignment); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", caseID).Str("status", status).Msg("Failed to set manual status")
		return fmt.Errorf("error updating manual status: %w", err)
	}
	return nil
}
