package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type EvaluationRepository interface {
	Create(evaluation *model.Evaluation) error
	FindByID(id uint) (*model.Evaluation, error)
	FindByStudents(studentIDs []string, caseID *string) ([]model.Evaluation, error)
	FindByStudentCase(studentID, caseID string) ([]model.Evaluation, error)
	LatestForStudentCase(studentID, caseID string) (*model.Evaluation, error)
	SetAllowRechat(id uint, allow bool) error
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(evaluation *model.Evaluation) error {
	return r.db.Create(evaluation).Error
}

func (r *evaluationRepository) FindByID(id uint) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	if err := r.db.First(&evaluation, id).Error; err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// FindByStudents returns evaluations for the given roster subset, newest
// first; ties on created_at fall back to the insertion key.
func (r *evaluationRepository) FindByStudents(studentIDs []string, caseID *string) ([]model.Evaluation, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	q := r.db.Where("student_id IN ?", studentIDs)
	if caseID != nil {
		q = q.Where("case_id = ?", *caseID)
	}
	var evaluations []model.Evaluation
	err := q.Order("created_at DESC, id DESC").Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepository) FindByStudentCase(studentID, caseID string) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.db.Where("student_id = ? AND case_id = ?", studentID, caseID).
		Order("created_at ASC, id ASC").
		Find(&evaluations).Error
	return evaluations, err
}

func (r *evaluationRepository) LatestForStudentCase(studentID, caseID string) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.Where("student_id = ? AND case_id = ?", studentID, caseID).
		Order("created_at DESC, id DESC").
		First(&evaluation).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// SetAllowRechat flips the single mutable field of an append-only row.
func (r *evaluationRepository) SetAllowRechat(id uint, allow bool) error {
	return r.db.Model(&model.Evaluation{}).
		Where("id = ?", id).
		Update("allow_rechat", allow).Error
}
