package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RollupService joins roster and evaluation records into one row per
// attempt, plus one synthetic row per student who has no attempts yet.
// Total rows = evaluations in scope + zero-evaluation students in scope;
// every roster-subset student appears at least once.
type RollupService interface {
	Rollup(scope string, caseID *string) ([]dto.RollupRowDTO, error)
	RollupStats(scope string, caseID *string) (*dto.SectionStatsDTO, error)
}

type rollupService struct {
	roster         RosterService
	studentRepo    repository.StudentRepository
	sectionRepo    repository.SectionRepository
	evaluationRepo repository.EvaluationRepository
	stats          StatsService
}

func NewRollupService(
	roster RosterService,
	studentRepo repository.StudentRepository,
	sectionRepo repository.SectionRepository,
	evaluationRepo repository.EvaluationRepository,
	stats StatsService,
) RollupService {
	return &rollupService{
		roster:         roster,
		studentRepo:    studentRepo,
		sectionRepo:    sectionRepo,
		evaluationRepo: evaluationRepo,
		stats:          stats,
	}
}

func (s *rollupService) Rollup(scope string, caseID *string) ([]dto.RollupRowDTO, error) {
	subset, err := s.scopeStudents(scope)
	if err != nil {
		return nil, err
	}
	if len(subset) == 0 {
		return []dto.RollupRowDTO{}, nil
	}

	byID := make(map[string]model.Student, len(subset))
	ids := make([]string, 0, len(subset))
	for _, st := range subset {
		byID[st.StudentID] = st
		ids = append(ids, st.StudentID)
	}

	evaluations, err := s.evaluationRepo.FindByStudents(ids, caseID)
	if err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("Rollup: failed to fetch evaluations")
		return nil, fmt.Errorf("error fetching evaluations: %w", err)
	}

	// Repositories already order newest-first; re-sort to keep the rollup
	// deterministic regardless of the backing store. Ties on created_at
	// fall back to the insertion key.
	sort.SliceStable(evaluations, func(i, j int) bool {
		if evaluations[i].CreatedAt.Equal(evaluations[j].CreatedAt) {
			return evaluations[i].ID > evaluations[j].ID
		}
		return evaluations[i].CreatedAt.After(evaluations[j].CreatedAt)
	})

	rows := make([]dto.RollupRowDTO, 0, len(evaluations)+len(subset))
	seen := make(map[string]bool, len(subset))
	for i := range evaluations {
		ev := evaluations[i]
		student, ok := byID[ev.StudentID]
		if !ok {
			continue
		}
		seen[ev.StudentID] = true
		completedAt := ev.CreatedAt
		allowRechat := ev.AllowRechat
		rows = append(rows, dto.RollupRowDTO{
			StudentID:    student.StudentID,
			FullName:     student.FullName,
			Persona:      student.Persona,
			Status:       dto.StatusCompleted,
			EvaluationID: &ev.ID,
			CaseID:       ev.CaseID,
			ScenarioID:   ev.ScenarioID,
			Score:        ev.Score,
			Hints:        ev.Hints,
			Helpful:      ev.Helpful,
			AllowRechat:  &allowRechat,
			CompletedAt:  &completedAt,
		})
	}

	// One synthetic row per student with no attempts: in_progress when the
	// chat ended without a recorded evaluation, not_started otherwise.
	for _, st := range subset {
		if seen[st.StudentID] {
			continue
		}
		status := dto.StatusNotStarted
		if st.FinishedAt != nil {
			status = dto.StatusInProgress
		}
		rows = append(rows, dto.RollupRowDTO{
			StudentID: st.StudentID,
			FullName:  st.FullName,
			Persona:   st.Persona,
			Status:    status,
		})
	}
	return rows, nil
}

func (s *rollupService) RollupStats(scope string, caseID *string) (*dto.SectionStatsDTO, error) {
	rows, err := s.Rollup(scope, caseID)
	if err != nil {
		return nil, err
	}
	stats := s.stats.Compute(rows)
	return &stats, nil
}

// scopeStudents resolves the roster subset for a scope: a section public ID
// or one of the synthetic buckets.
func (s *rollupService) scopeStudents(scope string) ([]model.Student, error) {
	students, err := s.studentRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}
	sections, err := s.sectionRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching sections: %w", err)
	}
	roster := s.roster.Classify(students, sections)

	switch scope {
	case dto.ScopeOtherCourses:
		return roster.OtherCourses, nil
	case dto.ScopeUnassigned:
		return roster.Unassigned, nil
	}

	if strings.HasPrefix(scope, model.OtherCoursePrefix) {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, scope)
	}
	if _, err := s.sectionRepo.FindByPublicID(scope); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, scope)
		}
		return nil, fmt.Errorf("error fetching section: %w", err)
	}
	var subset []model.Student
	for _, st := range roster.Assigned {
		if *st.SectionRef == scope {
			subset = append(subset, st)
		}
	}
	return subset, nil
}
