package service

import (
	"encoding/json"
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

// EvaluationService is the evaluation pipeline's write side: it scores a
// finished transcript and appends the resulting Evaluation row. Rows are
// append-only; allow_rechat is the only field it ever mutates afterwards.
type EvaluationService interface {
	MarkFinished(req dto.ChatFinishedDTO) error
	Evaluate(req dto.EvaluationSubmitDTO) (*dto.EvaluationResponseDTO, error)
	SetAllowRechat(evaluationID uint, allow bool) error
}

type evaluationService struct {
	studentRepo    repository.StudentRepository
	caseRepo       repository.CaseRepository
	scenarioRepo   repository.ScenarioRepository
	evaluationRepo repository.EvaluationRepository
	options        OptionsService
	llm            EvaluatorLLM
}

func NewEvaluationService(
	studentRepo repository.StudentRepository,
	caseRepo repository.CaseRepository,
	scenarioRepo repository.ScenarioRepository,
	evaluationRepo repository.EvaluationRepository,
	options OptionsService,
	llm EvaluatorLLM,
) EvaluationService {
	return &evaluationService{
		studentRepo:    studentRepo,
		caseRepo:       caseRepo,
		scenarioRepo:   scenarioRepo,
		evaluationRepo: evaluationRepo,
		options:        options,
		llm:            llm,
	}
}

// MarkFinished records that the chat ended. Until an evaluation row lands,
// such a student reports as in_progress in rollups — the same state whether
// the pipeline is still running or failed after the chat ended.
func (s *evaluationService) MarkFinished(req dto.ChatFinishedDTO) error {
	student, err := s.studentRepo.FindByPublicID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrStudentNotFound, req.StudentID)
		}
		return fmt.Errorf("error fetching student: %w", err)
	}
	at := time.Now()
	if req.FinishedAt != nil {
		at = *req.FinishedAt
	}
	student.FinishedAt = &at
	if err := s.studentRepo.Update(student); err != nil {
		return fmt.Errorf("error marking chat finished: %w", err)
	}
	return nil
}

func (s *evaluationService) Evaluate(req dto.EvaluationSubmitDTO) (*dto.EvaluationResponseDTO, error) {
	if _, err := s.studentRepo.FindByPublicID(req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, req.StudentID)
		}
		return nil, fmt.Errorf("error fetching student: %w", err)
	}
	courseCase, err := s.caseRepo.FindByPublicID(req.CaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, req.CaseID)
		}
		return nil, fmt.Errorf("error fetching case: %w", err)
	}

	var scenario *model.Scenario
	if req.ScenarioID != nil {
		scenario, err = s.scenarioRepo.FindByPublicID(*req.ScenarioID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, *req.ScenarioID)
			}
			return nil, fmt.Errorf("error fetching scenario: %w", err)
		}
	}

	// The resolver is total, so the evaluator model and the re-chat default
	// always come from a complete record.
	opts, _, err := s.options.ResolveEffective(req.SectionID, req.CaseID)
	if err != nil {
		return nil, err
	}

	verdict, err := s.llm.ScoreTranscript(opts.EvaluatorModel, courseCase, scenario, req.Transcript)
	if err != nil {
		// No row is written on a scoring failure; the student keeps their
		// finished_at marker and rolls up as in_progress until a later run
		// succeeds.
		log.Error().Err(err).Str("studentID", req.StudentID).Str("caseID", req.CaseID).Msg("Transcript scoring failed, no evaluation recorded")
		return nil, fmt.Errorf("transcript scoring failed: %w", err)
	}

	criteriaJSON, err := json.Marshal(verdict.Criteria)
	if err != nil {
		return nil, fmt.Errorf("error encoding criteria feedback: %w", err)
	}

	score := verdict.Score
	caseID := req.CaseID
	evaluation := model.Evaluation{
		StudentID:   req.StudentID,
		CaseID:      &caseID,
		ScenarioID:  req.ScenarioID,
		Score:       &score,
		Hints:       req.Hints,
		Helpful:     req.Helpful,
		Criteria:    string(criteriaJSON),
		Transcript:  req.Transcript,
		AllowRechat: opts.AllowRechat,
	}
	if err := s.evaluationRepo.Create(&evaluation); err != nil {
		log.Error().Err(err).Str("studentID", req.StudentID).Msg("Failed to store evaluation")
		return nil, fmt.Errorf("error storing evaluation: %w", err)
	}

	var resp dto.EvaluationResponseDTO
	if err := copier.Copy(&resp, &evaluation); err != nil {
		return nil, fmt.Errorf("error preparing evaluation response: %w", err)
	}
	return &resp, nil
}

func (s *evaluationService) SetAllowRechat(evaluationID uint, allow bool) error {
	if _, err := s.evaluationRepo.FindByID(evaluationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrEvaluationNotFound, evaluationID)
		}
		return fmt.Errorf("error fetching evaluation: %w", err)
	}
	if err := s.evaluationRepo.SetAllowRechat(evaluationID, allow); err != nil {
		return fmt.Errorf("error updating allow_rechat: %w", err)
	}
	return nil
}
