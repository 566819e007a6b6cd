package domain

import (
	"context"
	"errors"

	"github.com/catchcard/backend/config"
	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ShopDomain interface {
	ListShop(context.Context, *model.ListShopRequest) (*model.ListShopResponse, error)
	BuyCard(context.Context, *model.BuyCardRequest) (*model.BuyCardResponse, error)
}

type shopDomain struct {
	cardRepo repository.CardRepository
	userRepo repository.UserRepository
}

func NewShopDomain(
	cardRepo repository.CardRepository,
	userRepo repository.UserRepository,
) *shopDomain {
	return &shopDomain{cardRepo: cardRepo, userRepo: userRepo}
}

func (d *shopDomain) ListShop(
	ctx context.Context, req *model.ListShopRequest,
) (*model.ListShopResponse, error) {
	items := []model.ShopItem{}
	for _, tier := range xcontext.Configs(ctx).Game.Tiers {
		available, err := d.cardRepo.CountUnowned(ctx, tier.Key)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count unowned cards: %v", err)
			return nil, errorx.Unknown
		}

		items = append(items, model.ShopItem{
			Tier:      tier.Key,
			Label:     tier.Label,
			Price:     tier.Price,
			Available: available,
		})
	}

	return &model.ListShopResponse{Items: items}, nil
}

// errLostSelectionRace reports that the picked card was taken by a concurrent
// claim or purchase after selection. The purchase retries selection once.
var errLostSelectionRace = errors.New("the selected card was taken concurrently")

// BuyCard debits the price and assigns a random unowned card of the tier as
// one all-or-nothing unit. Either the buyer pays and owns a card, or nothing
// changed at all.
func (d *shopDomain) BuyCard(
	ctx context.Context, req *model.BuyCardRequest,
) (*model.BuyCardResponse, error) {
	tier, ok := xcontext.Configs(ctx).Game.Tier(req.Tier)
	if !ok {
		return nil, errorx.New(errorx.BadRequest, "Invalid tier %s", req.Tier)
	}

	userID := xcontext.RequestUserID(ctx)
	user := &entity.User{Base: entity.Base{ID: userID}}
	if err := d.userRepo.Upsert(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert user: %v", err)
		return nil, errorx.Unknown
	}

	for attempt := 0; attempt < 2; attempt++ {
		resp, err := d.buyOnce(ctx, userID, tier)
		if errors.Is(err, errLostSelectionRace) {
			continue
		}

		return resp, err
	}

	// Lost the re-selection race twice, the tier is effectively sold out.
	return nil, errorx.New(errorx.PoolEmpty, "No card of tier %s is available", tier.Key)
}

func (d *shopDomain) buyOnce(
	ctx context.Context, userID string, tier config.TierConfigs,
) (*model.BuyCardResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	card, err := d.cardRepo.PickRandomUnowned(ctx, tier.Key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PoolEmpty, "No card of tier %s is available", tier.Key)
		}

		xcontext.Logger(ctx).Errorf("Cannot pick a card of tier %s: %v", tier.Key, err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.DecreaseCoinsIfEnough(ctx, userID, tier.Price); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientFunds, "Not enough coins, the price is %d", tier.Price)
		}

		xcontext.Logger(ctx).Errorf("Cannot debit the price: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.cardRepo.AssignOwner(ctx, card.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The debit above rolls back with the transaction.
			return nil, errLostSelectionRace
		}

		xcontext.Logger(ctx).Errorf("Cannot assign card owner: %v", err)
		return nil, errorx.Unknown
	}

	buyer, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the buyer: %v", err)
		return nil, errorx.Unknown
	}

	card.OwnerID = userID

	xcontext.WithCommitDBTransaction(ctx)
	return &model.BuyCardResponse{
		Card:           convertCard(ctx, card),
		RemainingCoins: buyer.Coins,
	}, nil
}
