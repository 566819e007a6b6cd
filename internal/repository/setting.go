package repository

import (
	"context"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var result entity.Setting
	if err := xcontext.DB(ctx).Take(&result, "key=?", key).Error; err != nil {
		return "", err
	}

	return result.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entity.Setting{Key: key, Value: value}).Error
}
