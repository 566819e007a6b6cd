package domain

import (
	"context"
	"testing"
	"time"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/testutil"
	"github.com/catchcard/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_ledgerDomain_GetBalance(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewLedgerDomain(repository.NewUserRepository())

	resp, err := d.GetBalance(testutil.NewMockContextWithUserID(ctx, testutil.User1.ID), &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(200), resp.Coins)

	// Unknown accounts simply have nothing yet.
	resp, err = d.GetBalance(testutil.NewMockContextWithUserID(ctx, "nobody"), &model.GetBalanceRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.Coins)
}

func Test_ledgerDomain_ClaimDaily(t *testing.T) {
	ctx := testutil.NewMockContext()
	userRepo := repository.NewUserRepository()
	d := NewLedgerDomain(userRepo)

	userCtx := testutil.NewMockContextWithUserID(ctx, "daily-user")
	resp, err := d.ClaimDaily(userCtx, &model.ClaimDailyRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(50), resp.Amount)
	require.Equal(t, uint64(50), resp.Coins)

	// A second claim right away is rejected without mutation.
	_, err = d.ClaimDaily(userCtx, &model.ClaimDailyRequest{})
	requireErrorCode(t, err, errorx.TooSoon)

	user, err := userRepo.GetByID(ctx, "daily-user")
	require.NoError(t, err)
	require.Equal(t, uint64(50), user.Coins)

	// One minute before the cooldown elapses it is still too soon.
	setLastDailyClaim(t, ctx, "daily-user", time.Now().Add(-24*time.Hour+time.Minute))
	_, err = d.ClaimDaily(userCtx, &model.ClaimDailyRequest{})
	requireErrorCode(t, err, errorx.TooSoon)

	// Right after the cooldown the reward is granted again.
	setLastDailyClaim(t, ctx, "daily-user", time.Now().Add(-24*time.Hour-time.Second))
	resp, err = d.ClaimDaily(userCtx, &model.ClaimDailyRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(100), resp.Coins)
}

func Test_ledgerDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := NewLedgerDomain(repository.NewUserRepository())

	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	require.Equal(t, testutil.User1.ID, resp.Entries[0].UserID)
	require.Equal(t, uint64(200), resp.Entries[0].Coins)
	require.Equal(t, testutil.User2.ID, resp.Entries[1].UserID)
}

func setLastDailyClaim(t *testing.T, ctx context.Context, userID string, at time.Time) {
	t.Helper()
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", userID).
		Update("last_daily_claim", at).Error
	require.NoError(t, err)
}
