package domain

import (
	"context"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/pkg/enum"
	"github.com/catchcard/backend/pkg/xcontext"
)

func convertCard(ctx context.Context, card *entity.Card) model.Card {
	if card == nil {
		return model.Card{}
	}

	label := card.Tier
	if tier, ok := xcontext.Configs(ctx).Game.Tier(card.Tier); ok {
		label = tier.Label
	}

	return model.Card{
		ID:        card.ID,
		Name:      card.Name,
		Series:    card.Series,
		Tier:      card.Tier,
		TierLabel: label,
		FileType:  enum.ToString(card.FileType),
		FileID:    card.FileID,
		OwnerID:   card.OwnerID,
	}
}

func convertUser(user *entity.User) model.LeaderboardEntry {
	if user == nil {
		return model.LeaderboardEntry{}
	}

	return model.LeaderboardEntry{
		UserID: user.ID,
		Name:   user.Name,
		Coins:  user.Coins,
	}
}
