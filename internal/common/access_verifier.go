package common

import (
	"context"

	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
)

// AccessVerifier is invoked at the transport boundary, before any engine
// operation runs. The engine itself only ever sees account ids.
type AccessVerifier struct {
	userRepo repository.UserRepository
}

func NewAccessVerifier(userRepo repository.UserRepository) *AccessVerifier {
	return &AccessVerifier{userRepo: userRepo}
}

// VerifyUser rejects requests without an account id and requests from banned
// accounts. A failed ban-list lookup is a store fault, not a rejection.
func (verifier *AccessVerifier) VerifyUser(ctx context.Context) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	banned, err := verifier.userRepo.IsBanned(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check the ban list: %v", err)
		return errorx.Unknown
	}

	if banned {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

// VerifyModerator additionally requires the account to be in the configured
// moderator list.
func (verifier *AccessVerifier) VerifyModerator(ctx context.Context) error {
	if err := verifier.VerifyUser(ctx); err != nil {
		return err
	}

	game := xcontext.Configs(ctx).Game
	if !game.IsModerator(xcontext.RequestUserID(ctx)) {
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}
