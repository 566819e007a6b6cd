package domain

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type DropDomain interface {
	RegisterActivity(context.Context, *model.RegisterActivityRequest) (*model.RegisterActivityResponse, error)
	TryDrop(context.Context, *model.TryDropRequest) (*model.TryDropResponse, error)
	GetDropThreshold(context.Context, *model.GetDropThresholdRequest) (*model.GetDropThresholdResponse, error)
	SetDropThreshold(context.Context, *model.SetDropThresholdRequest) (*model.SetDropThresholdResponse, error)
}

type dropDomain struct {
	groupActivityRepo repository.GroupActivityRepository
	cardRepo          repository.CardRepository
	settingRepo       repository.SettingRepository

	// lastDropAt keeps the unix-nano timestamp of the last drop per group.
	// It is intentionally volatile; losing it on restart only widens one
	// debounce window.
	lastDropAt *xsync.MapOf[string, *int64]
}

func NewDropDomain(
	groupActivityRepo repository.GroupActivityRepository,
	cardRepo repository.CardRepository,
	settingRepo repository.SettingRepository,
) *dropDomain {
	return &dropDomain{
		groupActivityRepo: groupActivityRepo,
		cardRepo:          cardRepo,
		settingRepo:       settingRepo,
		lastDropAt:        xsync.NewMapOf[*int64](),
	}
}

func (d *dropDomain) RegisterActivity(
	ctx context.Context, req *model.RegisterActivityRequest,
) (*model.RegisterActivityResponse, error) {
	if req.GroupID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty group id")
	}

	threshold := d.effectiveThreshold(ctx)

	// The increment, the threshold check, and the reset happen in one
	// transaction. Nobody can observe a crossing without its reset.
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.groupActivityRepo.Upsert(ctx, req.GroupID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert group activity: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.groupActivityRepo.IncreaseCount(ctx, req.GroupID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase activity count: %v", err)
		return nil, errorx.Unknown
	}

	group, err := d.groupActivityRepo.Get(ctx, req.GroupID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get group activity: %v", err)
		return nil, errorx.Unknown
	}

	crossed := group.MessagesCount >= threshold
	if crossed {
		if err := d.groupActivityRepo.ResetCount(ctx, req.GroupID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot reset activity count: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.RegisterActivityResponse{Count: group.MessagesCount, Crossed: crossed}, nil
}

func (d *dropDomain) TryDrop(
	ctx context.Context, req *model.TryDropRequest,
) (*model.TryDropResponse, error) {
	if req.GroupID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty group id")
	}

	window := xcontext.Configs(ctx).Game.DropDebounce
	if !d.passDebounceGate(req.GroupID, time.Now(), window) {
		return &model.TryDropResponse{Suppressed: true}, nil
	}

	// The drop offers a random card over the whole pool, not tier-filtered.
	card, err := d.cardRepo.PickRandomUnowned(ctx, "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.PoolEmpty, "No unowned card is left in the pool")
		}

		xcontext.Logger(ctx).Errorf("Cannot pick a card to drop: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.groupActivityRepo.SetLastDropCardID(ctx, req.GroupID, card.ID); err != nil {
		// Bookkeeping only, the offer is still published.
		xcontext.Logger(ctx).Warnf("Cannot record the last dropped card: %v", err)
	}

	return &model.TryDropResponse{
		GroupID: req.GroupID,
		Card:    convertCard(ctx, card),
	}, nil
}

func (d *dropDomain) GetDropThreshold(
	ctx context.Context, req *model.GetDropThresholdRequest,
) (*model.GetDropThresholdResponse, error) {
	return &model.GetDropThresholdResponse{Threshold: d.effectiveThreshold(ctx)}, nil
}

func (d *dropDomain) SetDropThreshold(
	ctx context.Context, req *model.SetDropThresholdRequest,
) (*model.SetDropThresholdResponse, error) {
	if req.Threshold < 1 {
		return nil, errorx.New(errorx.BadRequest, "Drop threshold must be a positive number")
	}

	err := d.settingRepo.Set(ctx, entity.SettingDropThreshold, strconv.Itoa(req.Threshold))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot override drop threshold: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SetDropThresholdResponse{}, nil
}

// passDebounceGate advances the per-group gate timestamp if the window has
// elapsed. Under concurrent calls at most one caller passes per window.
func (d *dropDomain) passDebounceGate(groupID string, now time.Time, window time.Duration) bool {
	last, _ := d.lastDropAt.LoadOrStore(groupID, new(int64))
	for {
		prev := atomic.LoadInt64(last)
		if now.UnixNano()-prev < int64(window) {
			return false
		}

		if atomic.CompareAndSwapInt64(last, prev, now.UnixNano()) {
			return true
		}
	}
}

func (d *dropDomain) effectiveThreshold(ctx context.Context) int {
	value, err := d.settingRepo.Get(ctx, entity.SettingDropThreshold)
	if err == nil {
		if threshold, convErr := strconv.Atoi(value); convErr == nil && threshold >= 1 {
			return threshold
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot read drop threshold override: %v", err)
	}

	return xcontext.Configs(ctx).Game.DropThreshold
}
