package repository

import (
	"context"
	"errors"
	"time"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*entity.User, error)

	// Upsert creates the user if it does not exist yet and keeps the existing
	// record untouched otherwise. Accounts are created lazily by the first
	// balance-affecting operation.
	Upsert(ctx context.Context, user *entity.User) error

	IncreaseCoins(ctx context.Context, userID string, amount uint64) error

	// DecreaseCoinsIfEnough debits the balance only if it covers the amount.
	// It returns gorm.ErrRecordNotFound with no mutation otherwise.
	DecreaseCoinsIfEnough(ctx context.Context, userID string, amount uint64) error

	// GrantDaily credits the daily reward and stamps the claim time in a
	// single conditional update. It returns gorm.ErrRecordNotFound if the
	// cooldown has not elapsed yet.
	GrantDaily(ctx context.Context, userID string, amount uint64, now time.Time, cooldown time.Duration) error

	GetTopByCoins(ctx context.Context, limit int) ([]entity.User, error)

	IsBanned(ctx context.Context, userID string) (bool, error)
	Ban(ctx context.Context, userID string) error
	Unban(ctx context.Context, userID string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *entity.User) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user).Error
}

func (r *userRepository) IncreaseCoins(ctx context.Context, userID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", userID).
		Update("coins", gorm.Expr("coins+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) DecreaseCoinsIfEnough(ctx context.Context, userID string, amount uint64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND coins >= ?", userID, amount).
		Update("coins", gorm.Expr("coins-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) GrantDaily(
	ctx context.Context, userID string, amount uint64, now time.Time, cooldown time.Duration,
) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND (last_daily_claim IS NULL OR last_daily_claim <= ?)", userID, now.Add(-cooldown)).
		Updates(map[string]any{
			"coins":            gorm.Expr("coins+?", amount),
			"last_daily_claim": now,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) GetTopByCoins(ctx context.Context, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Order("coins DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) IsBanned(ctx context.Context, userID string) (bool, error) {
	err := xcontext.DB(ctx).Take(&entity.BannedUser{}, "user_id=?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (r *userRepository) Ban(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.BannedUser{UserID: userID}).Error
}

func (r *userRepository) Unban(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Delete(&entity.BannedUser{}, "user_id=?", userID).Error
}
