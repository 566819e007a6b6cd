package testutil

import (
	"context"
	"time"

	"github.com/catchcard/backend/config"
	"github.com/catchcard/backend/migration"
	"github.com/catchcard/backend/pkg/logger"
	"github.com/catchcard/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// A single connection keeps the in-memory database shared between all
	// goroutines of a test and serializes sqlite access.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		Env: "testing",
		Game: config.GameConfigs{
			DropThreshold: 10,
			DropDebounce:  2 * time.Second,
			ClaimReward:   20,
			DailyReward:   50,
			DailyCooldown: 24 * time.Hour,
			Moderators:    []string{Moderator.ID},
			Tiers:         config.DefaultTiers(),
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.ERROR))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
