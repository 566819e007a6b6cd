package domain

import (
	"context"
	"errors"
	"time"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type LedgerDomain interface {
	GetBalance(context.Context, *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
	ClaimDaily(context.Context, *model.ClaimDailyRequest) (*model.ClaimDailyResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type ledgerDomain struct {
	userRepo repository.UserRepository
}

func NewLedgerDomain(userRepo repository.UserRepository) *ledgerDomain {
	return &ledgerDomain{userRepo: userRepo}
}

func (d *ledgerDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The account has not joined the economy yet.
			return &model.GetBalanceResponse{Coins: 0}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{Coins: user.Coins}, nil
}

// ClaimDaily grants the daily reward on a rolling cooldown. The cooldown
// check, the claim timestamp, and the credit are a single conditional update,
// so two concurrent claims cannot both grant.
func (d *ledgerDomain) ClaimDaily(
	ctx context.Context, req *model.ClaimDailyRequest,
) (*model.ClaimDailyResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	game := xcontext.Configs(ctx).Game

	user := &entity.User{Base: entity.Base{ID: userID}}
	if err := d.userRepo.Upsert(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert user: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	err := d.userRepo.GrantDaily(ctx, userID, game.DailyReward, now, game.DailyCooldown)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.tooSoonError(ctx, userID, now, game.DailyCooldown)
		}

		xcontext.Logger(ctx).Errorf("Cannot grant daily reward: %v", err)
		return nil, errorx.Unknown
	}

	granted, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user after granting: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimDailyResponse{Amount: game.DailyReward, Coins: granted.Coins}, nil
}

func (d *ledgerDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	users, err := d.userRepo.GetTopByCoins(ctx, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top users: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i := range users {
		entries = append(entries, convertUser(&users[i]))
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}

func (d *ledgerDomain) tooSoonError(
	ctx context.Context, userID string, now time.Time, cooldown time.Duration,
) error {
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user after a rejected daily claim: %v", err)
		return errorx.Unknown
	}

	remaining := time.Duration(0)
	if user.LastDailyClaim.Valid {
		remaining = cooldown - now.Sub(user.LastDailyClaim.Time)
	}

	if remaining < 0 {
		remaining = 0
	}

	return errorx.New(errorx.TooSoon, "The next daily reward is available in %s",
		remaining.Round(time.Second))
}
