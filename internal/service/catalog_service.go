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

// ErrEnrollmentClosed rejects enrollment into a section that is not
// accepting new students.
var ErrEnrollmentClosed = errors.New("section is not accepting new students")

// CatalogService manages the section and case catalogs. Both are
// soft-disabled (enabled=false), never hard-deleted while referenced.
type CatalogService interface {
	CreateSection(req dto.SectionCreateDTO) (*dto.SectionResponseDTO, error)
	UpdateSection(sectionID string, req dto.SectionUpdateDTO) (*dto.SectionResponseDTO, error)
	ListSections() ([]dto.SectionResponseDTO, error)
	CreateCase(req dto.CaseCreateDTO) (*dto.CaseResponseDTO, error)
	UpdateCase(caseID string, req dto.CaseUpdateDTO) (*dto.CaseResponseDTO, error)
	ListCases() ([]dto.CaseResponseDTO, error)
	EnrollStudent(fullName, persona string, sectionRef *string) (*dto.StudentDTO, error)
}

type catalogService struct {
	sectionRepo repository.SectionRepository
	caseRepo    repository.CaseRepository
	studentRepo repository.StudentRepository
}

func NewCatalogService(
	sectionRepo repository.SectionRepository,
	caseRepo repository.CaseRepository,
	studentRepo repository.StudentRepository,
) CatalogService {
	return &catalogService{sectionRepo: sectionRepo, caseRepo: caseRepo, studentRepo: studentRepo}
}

func (s *catalogService) CreateSection(req dto.SectionCreateDTO) (*dto.SectionResponseDTO, error) {
	section := model.Section{
		SectionID:             "sec-" + uuid.NewString(),
		Title:                 req.Title,
		YearTerm:              req.YearTerm,
		Enabled:               true,
		AcceptNewStudents:     req.AcceptNewStudents,
		DefaultChatModel:      req.DefaultChatModel,
		DefaultEvaluatorModel: req.DefaultEvaluatorModel,
	}
	if err := s.sectionRepo.Create(&section); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create section")
		return nil, fmt.Errorf("error creating section: %w", err)
	}
	return sectionResponse(&section)
}

func (s *catalogService) UpdateSection(sectionID string, req dto.SectionUpdateDTO) (*dto.SectionResponseDTO, error) {
	section, err := s.sectionRepo.FindByPublicID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
		}
		return nil, fmt.Errorf("error fetching section: %w", err)
	}
	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.YearTerm != nil {
		section.YearTerm = *req.YearTerm
	}
	if req.Enabled != nil {
		section.Enabled = *req.Enabled
	}
	if req.AcceptNewStudents != nil {
		section.AcceptNewStudents = *req.AcceptNewStudents
	}
	if req.DefaultChatModel != nil {
		section.DefaultChatModel = *req.DefaultChatModel
	}
	if req.DefaultEvaluatorModel != nil {
		section.DefaultEvaluatorModel = *req.DefaultEvaluatorModel
	}
	if err := s.sectionRepo.Update(section); err != nil {
		return nil, fmt.Errorf("error updating section: %w", err)
	}
	return sectionResponse(section)
}

func (s *catalogService) ListSections() ([]dto.SectionResponseDTO, error) {
	sections, err := s.sectionRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching sections: %w", err)
	}
	var out []dto.SectionResponseDTO
	if err := copier.Copy(&out, sections); err != nil {
		return nil, fmt.Errorf("error preparing section list: %w", err)
	}
	return out, nil
}

func (s *catalogService) CreateCase(req dto.CaseCreateDTO) (*dto.CaseResponseDTO, error) {
	courseCase := model.Case{
		CaseID:      "case-" + uuid.NewString(),
		Title:       req.Title,
		Protagonist: req.Protagonist,
		Prompt:      req.Prompt,
		Rubric:      req.Rubric,
		Enabled:     true,
	}
	if err := s.caseRepo.Create(&courseCase); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create case")
		return nil, fmt.Errorf("error creating case: %w", err)
	}
	return caseResponse(&courseCase)
}

func (s *catalogService) UpdateCase(caseID string, req dto.CaseUpdateDTO) (*dto.CaseResponseDTO, error) {
	courseCase, err := s.caseRepo.FindByPublicID(caseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("error fetching case: %w", err)
	}
	if req.Title != nil {
		courseCase.Title = *req.Title
	}
	if req.Protagonist != nil {
		courseCase.Protagonist = *req.Protagonist
	}
	if req.Prompt != nil {
		courseCase.Prompt = *req.Prompt
	}
	if req.Rubric != nil {
		courseCase.Rubric = *req.Rubric
	}
	if req.Enabled != nil {
		courseCase.Enabled = *req.Enabled
	}
	if err := s.caseRepo.Update(courseCase); err != nil {
		return nil, fmt.Errorf("error updating case: %w", err)
	}
	return caseResponse(courseCase)
}

func (s *catalogService) ListCases() ([]dto.CaseResponseDTO, error) {
	cases, err := s.caseRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching cases: %w", err)
	}
	var out []dto.CaseResponseDTO
	if err := copier.Copy(&out, cases); err != nil {
		return nil, fmt.Errorf("error preparing case list: %w", err)
	}
	return out, nil
}

// EnrollStudent creates a student row. A real-section ref must point at an
// existing section with enrollment open; "other:" refs and absent refs pass
// through untouched.
func (s *catalogService) EnrollStudent(fullName, persona string, sectionRef *string) (*dto.StudentDTO, error) {
	if sectionRef != nil && !model.IsOtherCourseRef(*sectionRef) {
		section, err := s.sectionRepo.FindByPublicID(*sectionRef)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, *sectionRef)
			}
			return nil, fmt.Errorf("error fetching section: %w", err)
		}
		if !section.AcceptNewStudents {
			return nil, fmt.Errorf("%w: %s", ErrEnrollmentClosed, *sectionRef)
		}
	}

	student := model.Student{
		StudentID:  "stu-" + uuid.NewString(),
		FullName:   fullName,
		Persona:    persona,
		SectionRef: sectionRef,
	}
	if err := s.studentRepo.Create(&student); err != nil {
		log.Error().Err(err).Str("fullName", fullName).Msg("Failed to enroll student")
		return nil, fmt.Errorf("error enrolling student: %w", err)
	}

	var resp dto.StudentDTO
	if err := copier.Copy(&resp, &student); err != nil {
		return nil, fmt.Errorf("error preparing student response: %w", err)
	}
	return &resp, nil
}

func sectionResponse(section *model.Section) (*dto.SectionResponseDTO, error) {
	var resp dto.SectionResponseDTO
	if err := copier.Copy(&resp, section); err != nil {
		return nil, fmt.Errorf("error preparing section response: %w", err)
	}
	return &resp, nil
}

func caseResponse(courseCase *model.Case) (*dto.CaseResponseDTO, error) {
	var resp dto.CaseResponseDTO
	if err := copier.Copy(&resp, courseCase); err != nil {
		return nil, fmt.Errorf("error preparing case response: %w", err)
	}
	return &resp, nil
}
