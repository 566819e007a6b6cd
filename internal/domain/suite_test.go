package domain

import (
	"context"
	"testing"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

func creditUser(t *testing.T, ctx context.Context, userID string, amount uint64) {
	t.Helper()
	userRepo := repository.NewUserRepository()
	require.NoError(t, userRepo.Upsert(ctx, &entity.User{Base: entity.Base{ID: userID}}))
	require.NoError(t, userRepo.IncreaseCoins(ctx, userID, amount))
}
