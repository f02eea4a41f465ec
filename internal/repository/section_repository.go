package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type SectionRepository interface {
	Create(section *model.Section) error
	FindByPublicID(sectionID string) (*model.Section, error)
	FindAll() ([]model.Section, error)
	Update(section *model.Section) error
}

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Create(section *model.Section) error {
	return r.db.Create(section).Error
}

func (r *sectionRepository) FindByPublicID(sectionID string) (*model.Section, error) {
	var section model.Section
	if err := r.db.Where("section_id = ?", sectionID).First(&section).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *sectionRepository) FindAll() ([]model.Section, error) {
	var sections []model.Section
	// Disabled sections stay listed; the roster classifier and the panel
	// both need them.
	if err := r.db.Order("year_term DESC, title ASC").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepository) Update(section *model.Section) error {
	return r.db.Save(section).Error
}
