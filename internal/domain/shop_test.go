package domain

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_shopDomain_BuyCard(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	userRepo := repository.NewUserRepository()
	d := NewShopDomain(cardRepo, userRepo)

	// User1 has 200 coins, a rare card costs 150.
	buyerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.BuyCard(buyerCtx, &model.BuyCardRequest{Tier: "rare"})
	require.NoError(t, err)
	require.Equal(t, uint64(50), resp.RemainingCoins)
	require.Equal(t, "rare", resp.Card.Tier)
	require.Equal(t, testutil.User1.ID, resp.Card.OwnerID)

	card, err := cardRepo.GetByID(ctx, resp.Card.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, card.OwnerID)

	available, err := cardRepo.CountUnowned(ctx, "rare")
	require.NoError(t, err)
	require.Equal(t, int64(2), available)

	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(50), user.Coins)
}

func Test_shopDomain_BuyCard_failures(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	userRepo := repository.NewUserRepository()
	d := NewShopDomain(cardRepo, userRepo)

	buyerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)

	_, err := d.BuyCard(buyerCtx, &model.BuyCardRequest{Tier: "platinum"})
	requireErrorCode(t, err, errorx.BadRequest)

	// User2 has 50 coins, not enough for a rare card. Nothing changed.
	_, err = d.BuyCard(buyerCtx, &model.BuyCardRequest{Tier: "rare"})
	requireErrorCode(t, err, errorx.InsufficientFunds)

	user, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.Coins, user.Coins)

	available, err := cardRepo.CountUnowned(ctx, "rare")
	require.NoError(t, err)
	require.Equal(t, int64(3), available)

	// No unowned legendary card exists at all.
	_, err = d.BuyCard(buyerCtx, &model.BuyCardRequest{Tier: "legendary"})
	requireErrorCode(t, err, errorx.PoolEmpty)
}

func Test_shopDomain_BuyCard_lastCardConcurrently(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	userRepo := repository.NewUserRepository()
	d := NewShopDomain(cardRepo, userRepo)

	// Both buyers can afford the only mythic card (price 800).
	buyers := []string{"whale1", "whale2"}
	for _, id := range buyers {
		creditUser(t, ctx, id, 1000)
	}

	var purchased int64
	eg, _ := errgroup.WithContext(ctx)
	for _, id := range buyers {
		buyerID := id
		eg.Go(func() error {
			buyerCtx := testutil.NewMockContextWithUserID(ctx, buyerID)
			_, err := d.BuyCard(buyerCtx, &model.BuyCardRequest{Tier: "mythic"})
			if err != nil {
				var xerr errorx.Error
				if errors.As(err, &xerr) && xerr.Code == errorx.PoolEmpty {
					return nil
				}

				return err
			}

			atomic.AddInt64(&purchased, 1)
			return nil
		})
	}

	require.NoError(t, eg.Wait())
	require.Equal(t, int64(1), purchased)

	// Exactly one buyer paid; the loser's balance is unchanged.
	card, err := cardRepo.GetByID(ctx, testutil.Card4.ID)
	require.NoError(t, err)
	require.NotEmpty(t, card.OwnerID)

	winner, err := userRepo.GetByID(ctx, card.OwnerID)
	require.NoError(t, err)
	require.Equal(t, uint64(200), winner.Coins)

	for _, id := range buyers {
		if id == card.OwnerID {
			continue
		}

		loser, err := userRepo.GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), loser.Coins)
	}
}

func Test_shopDomain_ListShop(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewShopDomain(repository.NewCardRepository(), repository.NewUserRepository())

	resp, err := d.ListShop(ctx, &model.ListShopRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 10)

	byTier := map[string]model.ShopItem{}
	for _, item := range resp.Items {
		byTier[item.Tier] = item
	}

	require.Equal(t, int64(3), byTier["rare"].Available)
	require.Equal(t, uint64(150), byTier["rare"].Price)
	require.Equal(t, int64(1), byTier["mythic"].Available)
	require.Equal(t, int64(0), byTier["common"].Available)
}
