package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type CaseAssignmentRepository interface {
	Create(assignment *model.CaseAssignment) error
	FindByPair(sectionID, caseID string) (*model.CaseAssignment, error)
	FindBySection(sectionID string) ([]model.CaseAssignment, error)
	FindAll() ([]model.CaseAssignment, error)
	Update(assignment *model.CaseAssignment) error
	DeactivateAll(sectionID string) error
	DeleteByPair(sectionID, caseID string) error
}

type caseAssignmentRepository struct {
	db *gorm.DB
}

func NewCaseAssignmentRepository(db *gorm.DB) CaseAssignmentRepository {
	return &caseAssignmentRepository{db: db}
}

func (r *caseAssignmentRepository) Create(assignment *model.CaseAssignment) error {
	return r.db.Create(assignment).Error
}

func (r *caseAssignmentRepository) FindByPair(sectionID, caseID string) (*model.CaseAssignment, error) {
	var assignment model.CaseAssignment
	err := r.db.Where("section_id = ? AND case_id = ?", sectionID, caseID).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *caseAssignmentRepository) FindBySection(sectionID string) ([]model.CaseAssignment, error) {
	var assignments []model.CaseAssignment
	err := r.db.Where("section_id = ?", sectionID).Order("created_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *caseAssignmentRepository) FindAll() ([]model.CaseAssignment, error) {
	var assignments []model.CaseAssignment
	err := r.db.Order("section_id ASC, created_at ASC").Find(&assignments).Error
	return assignments, err
}

func (r *caseAssignmentRepository) Update(assignment *model.CaseAssignment) error {
	return r.db.Save(assignment).Error
}

// DeactivateAll clears the Active flag on every assignment of a section so
// that activating one keeps the at-most-one-active invariant.
func (r *caseAssignmentRepository) DeactivateAll(sectionID string) error {
	return r.db.Model(&model.CaseAssignment{}).
		Where("section_id = ?", sectionID).
		Update("active", false).Error
}

// DeleteByPair hard-deletes the assignment row; unassignment is not a soft
// delete.
func (r *caseAssignmentRepository) DeleteByPair(sectionID, caseID string) error {
	return r.db.Unscoped().
		Where("section_id = ? AND case_id = ?", sectionID, caseID).
		Delete(&model.CaseAssignment{}).Error
}
