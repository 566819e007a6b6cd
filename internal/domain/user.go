package domain

import (
	"context"

	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
)

type UserDomain interface {
	BanUser(context.Context, *model.BanUserRequest) (*model.BanUserResponse, error)
	UnbanUser(context.Context, *model.UnbanUserRequest) (*model.UnbanUserResponse, error)
}

type userDomain struct {
	userRepo repository.UserRepository
}

func NewUserDomain(userRepo repository.UserRepository) *userDomain {
	return &userDomain{userRepo: userRepo}
}

func (d *userDomain) BanUser(
	ctx context.Context, req *model.BanUserRequest,
) (*model.BanUserResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if xcontext.Configs(ctx).Game.IsModerator(req.UserID) {
		return nil, errorx.New(errorx.PermissionDenied, "Cannot ban a moderator")
	}

	if err := d.userRepo.Ban(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot ban user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BanUserResponse{}, nil
}

func (d *userDomain) UnbanUser(
	ctx context.Context, req *model.UnbanUserRequest,
) (*model.UnbanUserResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty user id")
	}

	if err := d.userRepo.Unban(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unban user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnbanUserResponse{}, nil
}
