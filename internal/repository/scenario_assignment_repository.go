package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type ScenarioAssignmentRepository interface {
	Create(assignment *model.ScenarioAssignment) error
	FindByPair(sectionID, caseID string) ([]model.ScenarioAssignment, error)
	UpdatePosition(id uint, position int) error
	DeleteByKey(sectionID, caseID, scenarioID string) error
}

type scenarioAssignmentRepository struct {
	db *gorm.DB
}

func NewScenarioAssignmentRepository(db *gorm.DB) ScenarioAssignmentRepository {
	return &scenarioAssignmentRepository{db: db}
}

func (r *scenarioAssignmentRepository) Create(assignment *model.ScenarioAssignment) error {
	return r.db.Create(assignment).Error
}

// FindByPair returns the assigned scenarios of a (section, case) pair in
// their explicit order.
func (r *scenarioAssignmentRepository) FindByPair(sectionID, caseID string) ([]model.ScenarioAssignment, error) {
	var assignments []model.ScenarioAssignment
	err := r.db.Where("section_id = ? AND case_id = ?", sectionID, caseID).
		Order("position ASC, id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *scenarioAssignmentRepository) UpdatePosition(id uint, position int) error {
	return r.db.Model(&model.ScenarioAssignment{}).
		Where("id = ?", id).
		Update("position", position).Error
}

// DeleteByKey hard-deletes the scenario assignment. Evaluations referencing
// the scenario are untouched.
func (r *scenarioAssignmentRepository) DeleteByKey(sectionID, caseID, scenarioID string) error {
	return r.db.Unscoped().
		Where("section_id = ? AND case_id = ? AND scenario_id = ?", sectionID, caseID, scenarioID).
		Delete(&model.ScenarioAssignment{}).Error
}
