package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type CaseRepository interface {
	Create(c *model.Case) error
	FindByPublicID(caseID string) (*model.Case, error)
	FindAll() ([]model.Case, error)
	Update(c *model.Case) error
}

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(c *model.Case) error {
	return r.db.Create(c).Error
}

func (r *caseRepository) FindByPublicID(caseID string) (*model.Case, error) {
	var c model.Case
	if err := r.db.Where("case_id = ?", caseID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) FindAll() ([]model.Case, error) {
	var cases []model.Case
	if err := r.db.Order("title ASC").Find(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *caseRepository) Update(c *model.Case) error {
	return r.db.Save(c).Error
}
