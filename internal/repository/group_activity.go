package repository

import (
	"context"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupActivityRepository interface {
	Upsert(ctx context.Context, groupID string) error
	Get(ctx context.Context, groupID string) (*entity.GroupActivity, error)
	IncreaseCount(ctx context.Context, groupID string) error
	ResetCount(ctx context.Context, groupID string) error
	SetLastDropCardID(ctx context.Context, groupID, cardID string) error
}

type groupActivityRepository struct{}

func NewGroupActivityRepository() *groupActivityRepository {
	return &groupActivityRepository{}
}

func (r *groupActivityRepository) Upsert(ctx context.Context, groupID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.GroupActivity{GroupID: groupID}).Error
}

func (r *groupActivityRepository) Get(ctx context.Context, groupID string) (*entity.GroupActivity, error) {
	var result entity.GroupActivity
	if err := xcontext.DB(ctx).Take(&result, "group_id=?", groupID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *groupActivityRepository) IncreaseCount(ctx context.Context, groupID string) error {
	tx := xcontext.DB(ctx).Model(&entity.GroupActivity{}).
		Where("group_id=?", groupID).
		Update("messages_count", gorm.Expr("messages_count+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *groupActivityRepository) ResetCount(ctx context.Context, groupID string) error {
	return xcontext.DB(ctx).Model(&entity.GroupActivity{}).
		Where("group_id=?", groupID).
		Update("messages_count", 0).Error
}

func (r *groupActivityRepository) SetLastDropCardID(ctx context.Context, groupID, cardID string) error {
	return xcontext.DB(ctx).Model(&entity.GroupActivity{}).
		Where("group_id=?", groupID).
		Update("last_drop_card_id", cardID).Error
}
