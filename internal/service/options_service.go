package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Where a resolved options record came from.
const (
	OptionsSourceCustom         = "custom"
	OptionsSourceSectionDefault = "section_default"
	OptionsSourceGlobalDefault  = "global_default"
	OptionsSourceBuiltIn        = "built_in"
)

// OptionsService resolves effective chat options through the inheritance
// chain: assignment override, then section default, then global default,
// then the built-in record. Resolution is total — it never returns an
// absent result — and is recomputed on every call so edits to a default
// propagate to everything still inheriting from it.
type OptionsService interface {
	ResolveEffective(sectionID, caseID string) (model.ChatOptions, string, error)
	SetCustom(sectionID, caseID string, opts model.ChatOptions) error
	ClearCustom(sectionID, caseID string) error
	SaveAsDefault(scope string, opts model.ChatOptions) error
	ApplyToSectionCases(sectionID, caseID string) (int, error)
	ApplyToAllSections(sectionID, caseID string) (int, error)
}

type optionsService struct {
	assignmentRepo repository.CaseAssignmentRepository
	defaultRepo    repository.ChatOptionsDefaultRepository
	sectionRepo    repository.SectionRepository
}

func NewOptionsService(
	assignmentRepo repository.CaseAssignmentRepository,
	defaultRepo repository.ChatOptionsDefaultRepository,
	sectionRepo repository.SectionRepository,
) OptionsService {
	return &optionsService{
		assignmentRepo: assignmentRepo,
		defaultRepo:    defaultRepo,
		sectionRepo:    sectionRepo,
	}
}

func (s *optionsService) ResolveEffective(sectionID, caseID string) (model.ChatOptions, string, error) {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ChatOptions{}, "", fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return model.ChatOptions{}, "", fmt.Errorf("error fetching assignment: %w", err)
	}
	return s.resolveFor(assignment)
}

// resolveFor walks the chain for an already-loaded assignment.
func (s *optionsService) resolveFor(assignment *model.CaseAssignment) (model.ChatOptions, string, error) {
	if assignment.ChatOptions != nil {
		return *assignment.ChatOptions, OptionsSourceCustom, nil
	}

	if opts, err := s.lookupDefault(assignment.SectionID); err != nil {
		return model.ChatOptions{}, "", err
	} else if opts != nil {
		return *opts, OptionsSourceSectionDefault, nil
	}

	if opts, err := s.lookupDefault(model.ScopeGlobal); err != nil {
		return model.ChatOptions{}, "", err
	} else if opts != nil {
		return *opts, OptionsSourceGlobalDefault, nil
	}

	return model.BuiltinChatOptions(), OptionsSourceBuiltIn, nil
}

// lookupDefault fetches the default record for a scope. A missing record is
// a normal chain miss (nil, nil). A corrupt record is logged and treated as
// a miss so a broken default never blocks the chat runtime; only genuine
// store failures are returned.
func (s *optionsService) lookupDefault(scope string) (*model.ChatOptions, error) {
	def, err := s.defaultRepo.FindByScope(scope)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			log.Error().Err(err).Str("scope", scope).Msg("Corrupt chat options default, falling back")
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching options default for scope %s: %w", scope, err)
	}
	if def.Options.ChatModel == "" || def.Options.EvaluatorModel == "" || def.Options.MaxMessages <= 0 {
		// An incomplete record in storage violates the always-complete
		// invariant; degrade rather than propagate it.
		log.Error().Str("scope", scope).Msg("Incomplete chat options default, falling back")
		return nil, nil
	}
	opts := def.Options
	return &opts, nil
}

func (s *optionsService) SetCustom(sectionID, caseID string, opts model.ChatOptions) error {
	assignment, err := s.findAssignment(sectionID, caseID)
	if err != nil {
		return err
	}
	assignment.ChatOptions = &opts
	if err := s.assignmentRepo.Update(assignment); err != nil {
		log.Error().Err(err).Str("sectionID", sectionID).Str("caseID", caseID).Msg("Failed to save custom chat options")
		return fmt.Errorf("error saving custom options: %w", err)
	}
	return nil
}

// ClearCustom reverts an assignment to inherit mode. The override is
// dropped, not replaced with a copy of the current default, so later edits
// to the applicable default keep propagating here.
func (s *optionsService) ClearCustom(sectionID, caseID string) error {
	assignment, err := s.findAssignment(sectionID, caseID)
	if err != nil {
		return err
	}
	assignment.ChatOptions = nil
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return fmt.Errorf("error clearing custom options: %w", err)
	}
	return nil
}

// SaveAsDefault upserts the default record for a scope. Assignments holding
// explicit overrides are never touched.
func (s *optionsService) SaveAsDefault(scope string, opts model.ChatOptions) error {
	if scope != model.ScopeGlobal {
		if _, err := s.sectionRepo.FindByPublicID(scope); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrBadDefaultScope, scope)
			}
			return fmt.Errorf("error validating default scope: %w", err)
		}
	}
	def := model.ChatOptionsDefault{Scope: scope, Options: opts}
	if err := s.defaultRepo.Upsert(&def); err != nil {
		log.Error().Err(err).Str("scope", scope).Msg("Failed to upsert chat options default")
		return fmt.Errorf("error saving options default: %w", err)
	}
	return nil
}

// ApplyToSectionCases copies the source assignment's resolved options into
// every assignment of the section as an explicit override.
func (s *optionsService) ApplyToSectionCases(sectionID, caseID string) (int, error) {
	source, _, err := s.ResolveEffective(sectionID, caseID)
	if err != nil {
		return 0, err
	}
	targets, err := s.assignmentRepo.FindBySection(sectionID)
	if err != nil {
		return 0, fmt.Errorf("error fetching section assignments: %w", err)
	}
	return s.copyInto(source, targets)
}

// ApplyToAllSections copies the source assignment's resolved options into
// every assignment of every section.
func (s *optionsService) ApplyToAllSections(sectionID, caseID string) (int, error) {
	source, _, err := s.ResolveEffective(sectionID, caseID)
	if err != nil {
		return 0, err
	}
	targets, err := s.assignmentRepo.FindAll()
	if err != nil {
		return 0, fmt.Errorf("error fetching assignments: %w", err)
	}
	return s.copyInto(source, targets)
}

// copyInto writes a deep copy of the resolved source record into each
// target. Each target gets its own copy, never a reference to a default, so
// future default edits do not retroactively change copied targets.
func (s *optionsService) copyInto(source model.ChatOptions, targets []model.CaseAssignment) (int, error) {
	updated := 0
	for i := range targets {
		var snapshot model.ChatOptions
		if err := copier.CopyWithOption(&snapshot, &source, copier.Option{DeepCopy: true}); err != nil {
			return updated, fmt.Errorf("error copying options record: %w", err)
		}
		targets[i].ChatOptions = &snapshot
		if err := s.assignmentRepo.Update(&targets[i]); err != nil {
			log.Error().Err(err).Str("sectionID", targets[i].SectionID).Str("caseID", targets[i].CaseID).Msg("Bulk options copy failed for target")
			return updated, fmt.Errorf("error updating assignment options: %w", err)
		}
		updated++
	}
	return updated, nil
}

func (s *optionsService) findAssignment(sectionID, caseID string) (*model.CaseAssignment, error) {
	assignment, err := s.assignmentRepo.FindByPair(sectionID, caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s case %s", ErrAssignmentNotFound, sectionID, caseID)
		}
		return nil, fmt.Errorf("error fetching assignment: %w", err)
	}
	return assignment, nil
}
