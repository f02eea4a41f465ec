package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AssignmentService owns the (section, case) pairing lifecycle: assign,
// reconfigure, activate, unassign.
type AssignmentService interface {
	Assign(sectionID string, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error)
	Update(sectionID, caseID string, req dto.AssignmentUpdateDTO) (*dto.AssignmentResponseDTO, error)
	Activate(sectionID, caseID string) error
	Unassign(sectionID, caseID string) error
	ListBySection(sectionID string, now time.Time) ([]dto.AssignmentResponseDTO, error)
}

type assignmentService struct {
	assignmentRepo repository.CaseAssignmentRepository
	sectionRepo    repository.SectionRepository
	caseRepo       repository.CaseRepository
	availability   AvailabilityService
	options        OptionsService
}

func NewAssignmentService(
	assignmentRepo repository.CaseAssignmentRepository,
	sectionRepo repository.SectionRepository,
	caseRepo repository.CaseRepository,
	availability AvailabilityService,
	options OptionsService,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		sectionRepo:    sectionRepo,
		caseRepo:       caseRepo,
		availability:   availability,
		options:        options,
	}
}

func (s *assignmentService) Assign(sectionID string, req dto.AssignmentCreateDTO) (*dto.AssignmentResponseDTO, error) {
	if _, err := s.sectionRepo.FindByPublicID(sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
		}
		return nil, fmt.Errorf("error fetching section: %w", err)
	}
	if _, err := s.caseRepo.FindByPublicID(req.CaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, req.CaseID)
		}
		return nil, fmt.Errorf("error fetching case: %w", err)
	}
	if _, err := s.assignmentRepo.FindByPair(sectionID, req.CaseID); err == nil {
		return nil, fmt.Errorf("%w: section %s case %s", ErrAssignmentExists, sectionID, req.CaseID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing assignment: %w", err)
	}

	selectionMode := req.SelectionMode
	if selectionMode == "" {
		selectionMode = model.SelectionStudentChoice
	}
	assignment := model.CaseAssignment{
		SectionID:     sectionID,
		CaseID:        req.CaseID,
		OpenDate:      req.OpenDate,
		CloseDate:     req.CloseDate,
		ManualStatus:  model.ManualAuto,
		UseScenarios:  req.UseScenarios,
		SelectionMode: selectionMode,
		RequireOrder:  req.RequireOrder,
	}
	if err := validateAssignment(&assignment); err != nil {
		return nil, err
	}
	if err := s.assignmentRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", req.CaseID).Msg("Failed to create assignment")
		return nil, fmt.Errorf("error creating assignment: %w", err)
	}
	return s.toResponse(&assignment, time.Now())
}

func (s *assignmentService) Update(sectionID, caseID string, req dto.AssignmentUpdateDTO) (*dto.AssignmentResponseDTO, error) {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return nil, fmt.Errorf("error fetching assignment: %w", err)
	}

	if req.ClearDates {
		assignment.OpenDate = nil
		assignment.CloseDate = nil
	}
	if req.OpenDate != nil {
		assignment.OpenDate = req.OpenDate
	}
	if req.CloseDate != nil {
		assignment.CloseDate = req.CloseDate
	}
	if req.UseScenarios != nil {
		// Turning scenarios off leaves existing scenario assignments in
		// place, unused; the assignment behaves as a single monolithic case.
		assignment.UseScenarios = *req.UseScenarios
	}
	if req.SelectionMode != nil {
		assignment.SelectionMode = *req.SelectionMode
	}
	if req.RequireOrder != nil {
		assignment.RequireOrder = *req.RequireOrder
	}
	if err := validateAssignment(assignment); err != nil {
		return nil, err
	}
	if err := s.assignmentRepo.Update(assignment); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", caseID).Msg("Failed to update assignment")
		return nil, fmt.Errorf("error updating assignment: %w", err)
	}
	return s.toResponse(assignment, time.Now())
}

// Activate marks the assignment as the section's current default case,
// clearing the flag on every sibling first.
func (s *assignmentService) Activate(sectionID, caseID string) error {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return fmt.Errorf("error fetching assignment: %w", err)
	}
	if err := s.assignmentRepo.DeactivateAll(sectionID); err != nil {
		return fmt.Errorf("error deactivating section assignments: %w", err)
	}
	assignment.Active = true
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return fmt.Errorf("error activating assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) Unassign(sectionID, caseID string) error {
	if _, err := s.assignmentRepo.FindByPair(sectionID, caseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return fmt.Errorf("error fetching assignment: %w", err)
	}
	if err := s.assignmentRepo.DeleteByPair(sectionID, caseID); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", caseID).Msg("Failed to delete assignment")
		return fmt.Errorf("error deleting assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) ListBySection(sectionID string, now time.Time) ([]dto.AssignmentResponseDTO, error) {
	if _, err := s.sectionRepo.FindByPublicID(sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
		}
		return nil, fmt.Errorf("error fetching section: %w", err)
	}
	assignments, err := s.assignmentRepo.FindBySection(sectionID)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments: %w", err)
	}

	out := make([]dto.AssignmentResponseDTO, 0, len(assignments))
	for i := range assignments {
		resp, err := s.toResponse(&assignments[i], now)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

func (s *assignmentService) toResponse(assignment *model.CaseAssignment, now time.Time) (*dto.AssignmentResponseDTO, error) {
	var resp dto.AssignmentResponseDTO
	if err := copier.Copy(&resp, assignment); err != nil {
		return nil, fmt.Errorf("error preparing assignment response: %w", err)
	}
	resp.Available = s.availability.Available(assignment, now)
	_, source, err := s.options.ResolveEffective(assignment.SectionID, assignment.CaseID)
	if err != nil {
		return nil, err
	}
	resp.OptionsSource = source
	return &resp, nil
}

// validateAssignment rejects inconsistent configuration before anything is
// persisted.
func validateAssignment(assignment *model.CaseAssignment) error {
	switch assignment.SelectionMode {
	case model.SelectionStudentChoice, model.SelectionAllRequired:
	default:
		return fmt.Errorf("%w: %s", ErrBadSelectionMode, assignment.SelectionMode)
	}
	if assignment.RequireOrder && assignment.SelectionMode != model.SelectionAllRequired {
		return ErrOrderNeedsAllReq
	}
	if assignment.OpenDate != nil && assignment.CloseDate != nil && !assignment.OpenDate.Before(*assignment.CloseDate) {
		return ErrBadDateWindow
	}
	return nil
}
