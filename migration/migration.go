package migration

import (
	"context"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/pkg/xcontext"
)

func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Card{},
		&entity.User{},
		&entity.GroupActivity{},
		&entity.Setting{},
		&entity.BannedUser{},
	)
}
