package repository

import (
	"context"
	"errors"

	"github.com/dlsistemas/comisiones/internal/settings/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Get(ctx context.Context, db *gorm.DB) (*domain.Settings, error) {
	var s domain.Settings
	err := db.WithContext(ctx).First(&s, "id = ?", domain.SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, settings *domain.Settings) error {
	settings.ID = domain.SettingsRowID
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error
}
