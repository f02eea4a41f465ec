package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
)

type ScenarioRepository interface {
	Create(scenario *model.Scenario) error
	FindByPublicID(scenarioID string) (*model.Scenario, error)
	FindByCase(caseID string) ([]model.Scenario, error)
	Update(scenario *model.Scenario) error
}

type scenarioRepository struct {
	db *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

func (r *scenarioRepository) Create(scenario *model.Scenario) error {
	return r.db.Create(scenario).Error
}

func (r *scenarioRepository) FindByPublicID(scenarioID string) (*model.Scenario, error) {
	var scenario model.Scenario
	if err := r.db.Where("scenario_id = ?", scenarioID).First(&scenario).Error; err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (r *scenarioRepository) FindByCase(caseID string) ([]model.Scenario, error) {
	var scenarios []model.Scenario
	err := r.db.Where("case_id = ?", caseID).Order("name ASC").Find(&scenarios).Error
	return scenarios, err
}

func (r *scenarioRepository) Update(scenario *model.Scenario) error {
	return r.db.Save(scenario).Error
}
