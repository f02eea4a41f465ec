package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Denial reasons returned to the chat runtime.
const (
	DenySectionDisabled    = "section_disabled"
	DenyCaseDisabled       = "case_disabled"
	DenyNotAvailable       = "assignment_not_available"
	DenyRechatNotAllowed   = "rechat_not_allowed"
	DenyScenarioRequired   = "scenario_required"
	DenyScenarioIneligible = "scenario_not_eligible"
)

// AdmissionService is the single entry point the chat runtime consults
// before letting a student begin an attempt. It composes the availability
// gate, the options resolver and the scenario selector; like them it is a
// pure read-then-derive step with no state between calls.
type AdmissionService interface {
	Admit(req dto.AdmissionRequestDTO, now time.Time) (*dto.AdmissionDecisionDTO, error)
}

type admissionService struct {
	sectionRepo    repository.SectionRepository
	caseRepo       repository.CaseRepository
	studentRepo    repository.StudentRepository
	evaluationRepo repository.EvaluationRepository
	scenarioRepo   repository.ScenarioRepository
	assignmentRepo repository.CaseAssignmentRepository
	availability   AvailabilityService
	options        OptionsService
	scenarios      ScenarioService
}

func NewAdmissionService(
	sectionRepo repository.SectionRepository,
	caseRepo repository.CaseRepository,
	studentRepo repository.StudentRepository,
	evaluationRepo repository.EvaluationRepository,
	scenarioRepo repository.ScenarioRepository,
	assignmentRepo repository.CaseAssignmentRepository,
	availability AvailabilityService,
	options OptionsService,
	scenarios ScenarioService,
) AdmissionService {
	return &admissionService{
		sectionRepo:    sectionRepo,
		caseRepo:       caseRepo,
		studentRepo:    studentRepo,
		evaluationRepo: evaluationRepo,
		scenarioRepo:   scenarioRepo,
		assignmentRepo: assignmentRepo,
		availability:   availability,
		options:        options,
		scenarios:      scenarios,
	}
}

func (s *admissionService) Admit(req dto.AdmissionRequestDTO, now time.Time) (*dto.AdmissionDecisionDTO, error) {
	section, err := s.sectionRepo.FindByPublicID(req.SectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, req.SectionID)
		}
		return nil, fmt.Errorf("error fetching section: %w", err)
	}
	courseCase, err := s.caseRepo.FindByPublicID(req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, req.CaseID)
		}
		return nil, fmt.Errorf("error fetching case: %w", err)
	}
	if _, err := s.studentRepo.FindByPublicID(req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, req.StudentID)
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	assignment, err := s.assignmentRepo.FindByPair(req.SectionID, req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, req.SectionID, req.CaseID)
		}
		return nil, fmt.Errorf("error fetching assignment: %w", err)
	}

	if !section.Enabled {
		return deny(DenySectionDisabled), nil
	}
	if !courseCase.Enabled {
		return deny(DenyCaseDisabled), nil
	}
	if !s.availability.Available(assignment, now) {
		return deny(DenyNotAvailable), nil
	}

	// Re-chat: a prior attempt blocks new ones unless its latest record
	// carries allow_rechat.
	latest, err := s.evaluationRepo.LatestForStudentCase(req.StudentID, req.CaseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error fetching latest evaluation: %w", err)
	}
	if latest != nil && !latest.AllowRechat {
		return deny(DenyRechatNotAllowed), nil
	}

	opts, _, err := s.options.ResolveEffective(req.SectionID, req.CaseID)
	if err != nil {
		return nil, err
	}
	timeLimit := opts.TimeLimitMin

	if assignment.UseScenarios {
		if req.ScenarioID == nil {
			return deny(DenyScenarioRequired), nil
		}
		eligible, err := s.scenarios.Eligible(req.SectionID, req.CaseID, req.StudentID)
		if err != nil {
			return nil, err
		}
		ok := false
		for _, e := range eligible {
			if e.ScenarioID == *req.ScenarioID && e.Eligible {
				ok = true
				break
			}
		}
		if !ok {
			return deny(DenyScenarioIneligible), nil
		}
		scenario, err := s.scenarioRepo.FindByPublicID(*req.ScenarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, *req.ScenarioID)
			}
			return nil, fmt.Errorf("error fetching scenario: %w", err)
		}
		if scenario.TimeLimitMin != nil {
			timeLimit = scenario.TimeLimitMin
		}
	}

	var optsDTO dto.ChatOptionsDTO
	if err := copier.Copy(&optsDTO, &opts); err != nil {
		return nil, fmt.Errorf("error preparing admission response: %w", err)
	}
	log.Info().Str("studentID", req.StudentID).Str("sectionID", req.SectionID).Str("caseID", req.CaseID).Msg("Admission granted")
	return &dto.AdmissionDecisionDTO{
		Allowed:      true,
		Options:      &optsDTO,
		TimeLimitMin: timeLimit,
	}, nil
}

func deny(reason string) *dto.AdmissionDecisionDTO {
	return &dto.AdmissionDecisionDTO{Allowed: false, Reason: reason}
}
