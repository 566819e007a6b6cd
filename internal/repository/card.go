package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/pkg/crypto"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CardRepository interface {
	Create(ctx context.Context, card *entity.Card) error
	GetByID(ctx context.Context, cardID string) (*entity.Card, error)
	GetListByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error)

	// SearchByName lists cards whose name contains the query,
	// case-insensitively.
	SearchByName(ctx context.Context, name string, limit int) ([]entity.Card, error)

	CountUnowned(ctx context.Context, tier string) (int64, error)

	// PickRandomUnowned returns a uniformly-random unowned card, optionally
	// filtered by tier (empty tier means the whole pool). It returns
	// gorm.ErrRecordNotFound if the pool is empty.
	PickRandomUnowned(ctx context.Context, tier string) (*entity.Card, error)

	// AssignOwner sets the owner of an unowned card. It returns
	// gorm.ErrRecordNotFound if the card does not exist or already has an
	// owner, with no mutation in that case.
	AssignOwner(ctx context.Context, cardID, userID string) error

	// TransferOwner moves a card between users, guarded by the current owner.
	TransferOwner(ctx context.Context, cardID, fromID, toID string) error
}

type cardRepository struct{}

func NewCardRepository() *cardRepository {
	return &cardRepository{}
}

func (r *cardRepository) Create(ctx context.Context, card *entity.Card) error {
	return xcontext.DB(ctx).Create(card).Error
}

func (r *cardRepository) GetByID(ctx context.Context, cardID string) (*entity.Card, error) {
	var result entity.Card
	if err := xcontext.DB(ctx).Take(&result, "id=?", cardID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cardRepository) GetListByOwnerID(ctx context.Context, ownerID string) ([]entity.Card, error) {
	var result []entity.Card
	err := xcontext.DB(ctx).Where("owner_id=?", ownerID).Order("created_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cardRepository) SearchByName(ctx context.Context, name string, limit int) ([]entity.Card, error) {
	var result []entity.Card
	err := xcontext.DB(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("name ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *cardRepository) CountUnowned(ctx context.Context, tier string) (int64, error) {
	var total int64
	if err := r.unownedQuery(ctx, tier).Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *cardRepository) PickRandomUnowned(ctx context.Context, tier string) (*entity.Card, error) {
	// A random offset over a counted set works the same on sqlite and mysql,
	// unlike ORDER BY RANDOM(). The picked card can be taken by somebody else
	// right after this query returns; callers must assign ownership with
	// AssignOwner and handle the lost race.
	total, err := r.CountUnowned(ctx, tier)
	if err != nil {
		return nil, err
	}

	if total == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var result entity.Card
	err = r.unownedQuery(ctx, tier).
		Order("id ASC").
		Offset(crypto.RandIntn(int(total))).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *cardRepository) AssignOwner(ctx context.Context, cardID, userID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Card{}).
		Where("id=? AND owner_id=?", cardID, "").
		Update("owner_id", userID)
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

func (r *cardRepository) TransferOwner(ctx context.Context, cardID, fromID, toID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Card{}).
		Where("id=? AND owner_id=?", cardID, fromID).
		Update("owner_id", toID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cardRepository) unownedQuery(ctx context.Context, tier string) *gorm.DB {
	tx := xcontext.DB(ctx).Model(&entity.Card{}).Where("owner_id=?", "")
	if tier != "" {
		tx = tx.Where("tier=?", tier)
	}

	return tx
}
