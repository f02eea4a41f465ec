package service

import (
	"fmt"
	"strings"

	"github.com/hntrann/casepanel/internal/dto"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/hntrann/casepanel/internal/repository"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// Roster is the three-way partition of the student body. The sets are
// disjoint and their union is the input.
type Roster struct {
	Assigned     []model.Student
	OtherCourses []model.Student
	Unassigned   []model.Student
}

type RosterService interface {
	// Classify partitions students against the current section list. It is
	// pure and re-derived on every call; nothing here may be cached across
	// writes.
	Classify(students []model.Student, sections []model.Section) Roster
	Snapshot() (*dto.RosterDTO, error)
	SectionCounts() (map[string]int, error)
}

type rosterService struct {
	studentRepo repository.StudentRepository
	sectionRepo repository.SectionRepository
}

func NewRosterService(studentRepo repository.StudentRepository, sectionRepo repository.SectionRepository) RosterService {
	return &rosterService{studentRepo: studentRepo, sectionRepo: sectionRepo}
}

func (s *rosterService) Classify(students []model.Student, sections []model.Section) Roster {
	known := make(map[string]struct{}, len(sections))
	for _, sec := range sections {
		// Disabled sections still claim their students; only a section that
		// no longer exists demotes a student to unassigned.
		known[sec.SectionID] = struct{}{}
	}

	var roster Roster
	for _, st := range students {
		switch {
		case st.SectionRef == nil:
			roster.Unassigned = append(roster.Unassigned, st)
		case strings.HasPrefix(*st.SectionRef, model.OtherCoursePrefix):
			roster.OtherCourses = append(roster.OtherCourses, st)
		default:
			if _, ok := known[*st.SectionRef]; ok {
				roster.Assigned = append(roster.Assigned, st)
			} else {
				roster.Unassigned = append(roster.Unassigned, st)
			}
		}
	}
	return roster
}

func (s *rosterService) Snapshot() (*dto.RosterDTO, error) {
	students, err := s.studentRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Roster snapshot: failed to fetch students")
		return nil, fmt.Errorf("error fetching students: %w", err)
	}
	sections, err := s.sectionRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Roster snapshot: failed to fetch sections")
		return nil, fmt.Errorf("error fetching sections: %w", err)
	}

	roster := s.Classify(students, sections)
	var out dto.RosterDTO
	if err := copier.Copy(&out.Assigned, roster.Assigned); err != nil {
		return nil, fmt.Errorf("error preparing roster response: %w", err)
	}
	if err := copier.Copy(&out.OtherCourses, roster.OtherCourses); err != nil {
		return nil, fmt.Errorf("error preparing roster response: %w", err)
	}
	if err := copier.Copy(&out.Unassigned, roster.Unassigned); err != nil {
		return nil, fmt.Errorf("error preparing roster response: %w", err)
	}
	return &out, nil
}

// SectionCounts reports the number of assigned students per section public
// ID, for the panel's section headers.
func (s *rosterService) SectionCounts() (map[string]int, error) {
	students, err := s.studentRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching students: %w", err)
	}
	sections, err := s.sectionRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching sections: %w", err)
	}

	counts := make(map[string]int, len(sections))
	for _, sec := range sections {
		counts[sec.SectionID] = 0
	}
	for _, st := range s.Classify(students, sections).Assigned {
		counts[*st.SectionRef]++
	}
	return counts, nil
}
