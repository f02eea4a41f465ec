package repository

import (
	"github.com/hntrann/casepanel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatOptionsDefaultRepository interface {
	FindByScope(scope string) (*model.ChatOptionsDefault, error)
	Upsert(def *model.ChatOptionsDefault) error
}

type chatOptionsDefaultRepository struct {
	db *gorm.DB
}

func NewChatOptionsDefaultRepository(db *gorm.DB) ChatOptionsDefaultRepository {
	return &chatOptionsDefaultRepository{db: db}
}

func (r *chatOptionsDefaultRepository) FindByScope(scope string) (*model.ChatOptionsDefault, error) {
	var def model.ChatOptionsDefault
	if err := r.db.Where("scope = ?", scope).First(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *chatOptionsDefaultRepository) Upsert(def *model.ChatOptionsDefault) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{"options", "updated_at"}),
	}).Create(def).Error
}
