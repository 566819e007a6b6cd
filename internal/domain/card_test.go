package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_cardDomain_Claim(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	userRepo := repository.NewUserRepository()
	d := NewCardDomain(cardRepo, userRepo)

	claimerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.Claim(claimerCtx, &model.ClaimCardRequest{CardID: testutil.Card1.ID})
	require.NoError(t, err)
	require.Equal(t, uint64(20), resp.Reward)
	require.Equal(t, testutil.User1.ID, resp.Card.OwnerID)

	card, err := cardRepo.GetByID(ctx, testutil.Card1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, card.OwnerID)

	// The flat reward was credited on top of the fixture balance.
	user, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Coins+20, user.Coins)

	// The loser of the race gets a definitive rejection.
	loserCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err = d.Claim(loserCtx, &model.ClaimCardRequest{CardID: testutil.Card1.ID})
	requireErrorCode(t, err, errorx.AlreadyOwned)

	_, err = d.Claim(loserCtx, &model.ClaimCardRequest{CardID: "no-such-card"})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_cardDomain_Claim_concurrently(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	userRepo := repository.NewUserRepository()
	d := NewCardDomain(cardRepo, userRepo)

	const claimers = 8
	winners := make(chan string, claimers)

	eg, _ := errgroup.WithContext(ctx)
	for i := 0; i < claimers; i++ {
		userID := fmt.Sprintf("racer-%d", i)
		eg.Go(func() error {
			claimerCtx := testutil.NewMockContextWithUserID(ctx, userID)
			_, err := d.Claim(claimerCtx, &model.ClaimCardRequest{CardID: testutil.Card2.ID})
			if err != nil {
				var xerr errorx.Error
				if errors.As(err, &xerr) && xerr.Code == errorx.AlreadyOwned {
					return nil
				}

				return err
			}

			winners <- userID
			return nil
		})
	}

	require.NoError(t, eg.Wait())
	close(winners)

	require.Len(t, winners, 1)
	winner := <-winners

	card, err := cardRepo.GetByID(ctx, testutil.Card2.ID)
	require.NoError(t, err)
	require.Equal(t, winner, card.OwnerID)

	// Only the winner was rewarded.
	user, err := userRepo.GetByID(ctx, winner)
	require.NoError(t, err)
	require.Equal(t, uint64(20), user.Coins)
}

func Test_cardDomain_CreateCard(t *testing.T) {
	ctx := testutil.NewMockContext()
	cardRepo := repository.NewCardRepository()
	d := NewCardDomain(cardRepo, repository.NewUserRepository())

	resp, err := d.CreateCard(ctx, &model.CreateCardRequest{
		Name:     "Thiri",
		Series:   "Classics",
		FileType: "photo",
		FileID:   "file-id",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Card.ID)
	require.NotEmpty(t, resp.Card.Tier)
	require.Empty(t, resp.Card.OwnerID)

	// Video cards always land in the animated tier.
	resp, err = d.CreateCard(ctx, &model.CreateCardRequest{
		Name:     "Dancing Thiri",
		FileType: "video",
		FileID:   "file-id-2",
	})
	require.NoError(t, err)
	require.Equal(t, "animated", resp.Card.Tier)

	_, err = d.CreateCard(ctx, &model.CreateCardRequest{Name: "Broken", FileType: "gif"})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.CreateCard(ctx, &model.CreateCardRequest{FileType: "photo"})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_cardDomain_Transfer(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	cardRepo := repository.NewCardRepository()
	d := NewCardDomain(cardRepo, repository.NewUserRepository())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := d.Claim(ownerCtx, &model.ClaimCardRequest{CardID: testutil.Card3.ID})
	require.NoError(t, err)

	// Somebody who does not own the card cannot give it away.
	strangerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	_, err = d.Transfer(strangerCtx, &model.TransferCardRequest{
		CardID:     testutil.Card3.ID,
		ReceiverID: testutil.User2.ID,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.Transfer(strangerCtx, &model.TransferCardRequest{
		CardID:     testutil.Card3.ID,
		ReceiverID: "somebody",
	})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = d.Transfer(ownerCtx, &model.TransferCardRequest{
		CardID:     testutil.Card3.ID,
		ReceiverID: testutil.User2.ID,
	})
	require.NoError(t, err)

	card, err := cardRepo.GetByID(ctx, testutil.Card3.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, card.OwnerID)
}

func Test_cardDomain_GetMyCards(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewCardDomain(repository.NewCardRepository(), repository.NewUserRepository())

	ownerCtx := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := d.GetMyCards(ownerCtx, &model.GetMyCardsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Cards)

	_, err = d.Claim(ownerCtx, &model.ClaimCardRequest{CardID: testutil.Card1.ID})
	require.NoError(t, err)

	resp, err = d.GetMyCards(ownerCtx, &model.GetMyCardsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Cards, 1)
	require.Equal(t, testutil.Card1.ID, resp.Cards[0].ID)
	require.Equal(t, "🔵 Rare", resp.Cards[0].TierLabel)
}

func Test_cardDomain_SearchCards(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewCardDomain(repository.NewCardRepository(), repository.NewUserRepository())

	// The match is a case-insensitive substring of the name.
	resp, err := d.SearchCards(ctx, &model.SearchCardsRequest{Query: "THWAY"})
	require.NoError(t, err)
	require.Len(t, resp.Cards, 1)
	require.Equal(t, testutil.Card2.ID, resp.Cards[0].ID)

	resp, err = d.SearchCards(ctx, &model.SearchCardsRequest{Query: "moe"})
	require.NoError(t, err)
	require.Len(t, resp.Cards, 1)
	require.Equal(t, testutil.Card3.ID, resp.Cards[0].ID)

	resp, err = d.SearchCards(ctx, &model.SearchCardsRequest{Query: "nobody"})
	require.NoError(t, err)
	require.Empty(t, resp.Cards)

	_, err = d.SearchCards(ctx, &model.SearchCardsRequest{Query: "   "})
	requireErrorCode(t, err, errorx.BadRequest)
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)

	var xerr errorx.Error
	require.True(t, errors.As(err, &xerr), "expected an errorx.Error, got %v", err)
	require.Equal(t, code, xerr.Code)
}
