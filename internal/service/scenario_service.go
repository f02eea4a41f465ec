package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScenarioService manages scenario variants and decides which of them a
// student may attempt next. When an assignment has UseScenarios off the
// selector is inert: Eligible returns nothing and the assignment behaves as
// a single monolithic case.
type ScenarioService interface {
	CreateScenario(req dto.ScenarioCreateDTO) (*dto.ScenarioResponseDTO, error)
	ListByCase(caseID string) ([]dto.ScenarioResponseDTO, error)
	Assign(sectionID, caseID, scenarioID string) error
	Unassign(sectionID, caseID, scenarioID string) error
	Reorder(sectionID, caseID string, scenarioIDs []string) error
	Eligible(sectionID, caseID, studentID string) ([]dto.EligibleScenarioDTO, error)
}

type scenarioService struct {
	scenarioRepo   repository.ScenarioRepository
	scenAssignRepo repository.ScenarioAssignmentRepository
	assignmentRepo repository.CaseAssignmentRepository
	caseRepo       repository.CaseRepository
	studentRepo    repository.StudentRepository
	evaluationRepo repository.EvaluationRepository
}

func NewScenarioService(
	scenarioRepo repository.ScenarioRepository,
	scenAssignRepo repository.ScenarioAssignmentRepository,
	assignmentRepo repository.CaseAssignmentRepository,
	caseRepo repository.CaseRepository,
	studentRepo repository.StudentRepository,
	evaluationRepo repository.EvaluationRepository,
) ScenarioService {
	return &scenarioService{
		scenarioRepo:   scenarioRepo,
		scenAssignRepo: scenAssignRepo,
		assignmentRepo: assignmentRepo,
		caseRepo:       caseRepo,
		studentRepo:    studentRepo,
		evaluationRepo: evaluationRepo,
	}
}

func (s *scenarioService) CreateScenario(req dto.ScenarioCreateDTO) (*dto.ScenarioResponseDTO, error) {
	if _, err := s.caseRepo.FindByPublicID(req.CaseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, req.CaseID)
		}
		return nil, fmt.Errorf("error fetching case: %w", err)
	}

	scenario := model.Scenario{
		ScenarioID:   "scn-" + uuid.NewString(),
		CaseID:       req.CaseID,
		Name:         req.Name,
		Protagonist:  req.Protagonist,
		TimeLimitMin: req.TimeLimitMin,
	}
	if err := s.scenarioRepo.Create(&scenario); err != nil {
		log.Error().Err(err).Str("caseID", req.CaseID).Msg("Failed to create scenario")
		return nil, fmt.Errorf("error creating scenario: %w", err)
	}

	var resp dto.ScenarioResponseDTO
	if err := copier.Copy(&resp, &scenario); err != nil {
		return nil, fmt.Errorf("error preparing scenario response: %w", err)
	}
	return &resp, nil
}

func (s *scenarioService) ListByCase(caseID string) ([]dto.ScenarioResponseDTO, error) {
	scenarios, err := s.scenarioRepo.FindByCase(caseID)
	if err != nil {
		return nil, fmt.Errorf("error fetching scenarios: %w", err)
	}
	var out []dto.ScenarioResponseDTO
	if err := copier.Copy(&out, scenarios); err != nil {
		return nil, fmt.Errorf("error preparing scenario list: %w", err)
	}
	return out, nil
}

func (s *scenarioService) Assign(sectionID, caseID, scenarioID string) error {
	if _, err := s.findAssignment(sectionID, caseID); err != nil {
		return err
	}
	scenario, err := s.scenarioRepo.FindByPublicID(scenarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrScenarioNotFound, scenarioID)
		}
		return fmt.Errorf("error fetching scenario: %w", err)
	}
	if scenario.CaseID != caseID {
		return fmt.Errorf("%w: scenario %s belongs to case %s", ErrScenarioCase, scenarioID, scenario.CaseID)
	}

	existing, err := s.scenAssignRepo.FindByPair(sectionID, caseID)
	if err != nil {
		return fmt.Errorf("error fetching scenario assignments: %w", err)
	}
	position := 0
	for _, sa := range existing {
		if sa.ScenarioID == scenarioID {
			return fmt.Errorf("%w: %s", ErrScenarioAssigned, scenarioID)
		}
		if sa.Position > position {
			position = sa.Position
		}
	}

	assignment := model.ScenarioAssignment{
		SectionID:  sectionID,
		CaseID:     caseID,
		ScenarioID: scenarioID,
		Position:   position + 1,
	}
	if err := s.scenAssignRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", caseID).Str("scenarioID", scenarioID).Msg("Failed to assign scenario")
		return fmt.Errorf("error assigning scenario: %w", err)
	}
	return nil
}

// Unassign removes the scenario from future eligibility computations only.
// Evaluations already recorded against it stay untouched.
func (s *scenarioService) Unassign(sectionID, caseID, scenarioID string) error {
	existing, err := s.scenAssignRepo.FindByPair(sectionID, caseID)
	if err != nil {
		return fmt.Errorf("error fetching scenario assignments: %w", err)
	}
	found := false
	for _, sa := range existing {
		if sa.ScenarioID == scenarioID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s is not assigned to section %s case %s", ErrScenarioNotFound, scenarioID, sectionID, caseID)
	}
	if err := s.scenAssignRepo.DeleteByKey(sectionID, caseID, scenarioID); err != nil {
		return fmt.Errorf("error unassigning scenario: %w", err)
	}
	return nil
}

// Reorder rewrites the explicit positions. The ID list must be exactly the
// currently assigned set.
func (s *scenarioService) Reorder(sectionID, caseID string, scenarioIDs []string) error {
	existing, err := s.scenAssignRepo.FindByPair(sectionID, caseID)
	if err != nil {
		return fmt.Errorf("error fetching scenario assignments: %w", err)
	}
	byScenario := make(map[string]model.ScenarioAssignment, len(existing))
	for _, sa := range existing {
		byScenario[sa.ScenarioID] = sa
	}
	if len(scenarioIDs) != len(existing) {
		return fmt.Errorf("%w: reorder list must contain all %d assigned scenarios", ErrScenarioNotFound, len(existing))
	}
	for _, id := range scenarioIDs {
		if _, ok := byScenario[id]; !ok {
			return fmt.Errorf("%w: %s is not assigned to section %s case %s", ErrScenarioNotFound, id, sectionID, caseID)
		}
	}

	for i, id := range scenarioIDs {
		if err := s.scenAssignRepo.UpdatePosition(byScenario[id].ID, i+1); err != nil {
			return fmt.Errorf("error reordering scenarios: %w", err)
		}
	}
	return nil
}

func (s *scenarioService) Eligible(sectionID, caseID, studentID string) ([]dto.EligibleScenarioDTO, error) {
	assignment, err := s.findAssignment(sectionID, caseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.FindByPublicID(studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	if !assignment.UseScenarios {
		return nil, nil
	}

	assigned, err := s.scenAssignRepo.FindByPair(sectionID, caseID)
	if err != nil {
		return nil, fmt.Errorf("error fetching scenario assignments: %w", err)
	}
	if len(assigned) == 0 {
		return nil, nil
	}

	evaluations, err := s.evaluationRepo.FindByStudentCase(studentID, caseID)
	if err != nil {
		return nil, fmt.Errorf("error fetching evaluations: %w", err)
	}
	completed := make(map[string]bool)
	for _, ev := range evaluations {
		if ev.ScenarioID != nil {
			completed[*ev.ScenarioID] = true
		}
	}

	scenarios, err := s.scenarioRepo.FindByCase(caseID)
	if err != nil {
		return nil, fmt.Errorf("error fetching scenarios: %w", err)
	}
	byID := make(map[string]model.Scenario, len(scenarios))
	for _, sc := range scenarios {
		byID[sc.ScenarioID] = sc
	}

	ordered := assignment.SelectionMode == model.SelectionAllRequired && assignment.RequireOrder
	out := make([]dto.EligibleScenarioDTO, 0, len(assigned))
	prevCompleted := true
	for _, sa := range assigned {
		entry := dto.EligibleScenarioDTO{
			ScenarioID: sa.ScenarioID,
			Position:   sa.Position,
			Completed:  completed[sa.ScenarioID],
		}
		if sc, ok := byID[sa.ScenarioID]; ok {
			entry.Name = sc.Name
			entry.TimeLimitMin = sc.TimeLimitMin
		}
		if ordered {
			// Position k+1 unlocks only once position k has a completed
			// evaluation for this student.
			entry.Eligible = prevCompleted
			prevCompleted = prevCompleted && entry.Completed
		} else {
			entry.Eligible = true
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *scenarioService) findAssignment(sectionID, caseID string) (*model.CaseAssignment, error) {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return nil, fmt.Errorf("error fetching assignment: %w", err)
	}
	return assignment, nil
}
