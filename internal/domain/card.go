package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/model"
	"github.com/catchcard/backend/internal/repository"
	"github.com/catchcard/backend/pkg/crypto"
	"github.com/catchcard/backend/pkg/enum"
	"github.com/catchcard/backend/pkg/errorx"
	"github.com/catchcard/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardDomain interface {
	Claim(context.Context, *model.ClaimCardRequest) (*model.ClaimCardResponse, error)
	CreateCard(context.Context, *model.CreateCardRequest) (*model.CreateCardResponse, error)
	GetCard(context.Context, *model.GetCardRequest) (*model.GetCardResponse, error)
	GetMyCards(context.Context, *model.GetMyCardsRequest) (*model.GetMyCardsResponse, error)
	SearchCards(context.Context, *model.SearchCardsRequest) (*model.SearchCardsResponse, error)
	Transfer(context.Context, *model.TransferCardRequest) (*model.TransferCardResponse, error)
}

type cardDomain struct {
	cardRepo repository.CardRepository
	userRepo repository.UserRepository
}

func NewCardDomain(
	cardRepo repository.CardRepository,
	userRepo repository.UserRepository,
) *cardDomain {
	return &cardDomain{cardRepo: cardRepo, userRepo: userRepo}
}

// Claim resolves a claim request against a dropped card. Under concurrent
// claims for the same card exactly one caller wins; the owner column is only
// ever written by a conditional update guarded on it being empty.
func (d *cardDomain) Claim(
	ctx context.Context, req *model.ClaimCardRequest,
) (*model.ClaimCardResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	card, err := d.cardRepo.GetByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found card")
		}

		xcontext.Logger(ctx).Errorf("Cannot get card: %v", err)
		return nil, errorx.Unknown
	}

	if card.OwnerID != "" {
		return nil, errorx.New(errorx.AlreadyOwned, "Someone already claimed this card")
	}

	if err := d.cardRepo.AssignOwner(ctx, card.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyOwned, "Someone already claimed this card")
		}

		xcontext.Logger(ctx).Errorf("Cannot assign card owner: %v", err)
		return nil, errorx.Unknown
	}

	card.OwnerID = userID

	// The reward is a courtesy bonus on top of the ownership. A failed credit
	// never rolls the claim back, it is reconciled out of band instead.
	reward := xcontext.Configs(ctx).Game.ClaimReward
	if err := d.creditCoins(ctx, userID, reward); err != nil {
		xcontext.Logger(ctx).Errorf(
			"Cannot credit claim reward of %d to %s for card %s, needs reconciliation: %v",
			reward, userID, card.ID, err)
	}

	return &model.ClaimCardResponse{Card: convertCard(ctx, card), Reward: reward}, nil
}

func (d *cardDomain) CreateCard(
	ctx context.Context, req *model.CreateCardRequest,
) (*model.CreateCardResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty card name")
	}

	fileType, err := enum.ToEnum[entity.CardFileType](req.FileType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid file type %s", req.FileType)
	}

	card := &entity.Card{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     req.Name,
		Series:   req.Series,
		Tier:     d.pickTier(ctx, fileType),
		FileType: fileType,
		FileID:   req.FileID,
		FilePath: req.FilePath,
	}

	if err := d.cardRepo.Create(ctx, card); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create card: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCardResponse{Card: convertCard(ctx, card)}, nil
}

func (d *cardDomain) GetCard(
	ctx context.Context, req *model.GetCardRequest,
) (*model.GetCardResponse, error) {
	card, err := d.cardRepo.GetByID(ctx, req.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found card")
		}

		xcontext.Logger(ctx).Errorf("Cannot get card: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCardResponse{Card: convertCard(ctx, card)}, nil
}

func (d *cardDomain) GetMyCards(
	ctx context.Context, req *model.GetMyCardsRequest,
) (*model.GetMyCardsResponse, error) {
	cards, err := d.cardRepo.GetListByOwnerID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get cards: %v", err)
		return nil, errorx.Unknown
	}

	clientCards := []model.Card{}
	for i := range cards {
		clientCards = append(clientCards, convertCard(ctx, &cards[i]))
	}

	return &model.GetMyCardsResponse{Cards: clientCards}, nil
}

func (d *cardDomain) SearchCards(
	ctx context.Context, req *model.SearchCardsRequest,
) (*model.SearchCardsResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty search query")
	}

	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	cards, err := d.cardRepo.SearchByName(ctx, query, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search cards: %v", err)
		return nil, errorx.Unknown
	}

	clientCards := []model.Card{}
	for i := range cards {
		clientCards = append(clientCards, convertCard(ctx, &cards[i]))
	}

	return &model.SearchCardsResponse{Cards: clientCards}, nil
}

func (d *cardDomain) Transfer(
	ctx context.Context, req *model.TransferCardRequest,
) (*model.TransferCardResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if req.ReceiverID == "" || req.ReceiverID == userID {
		return nil, errorx.New(errorx.BadRequest, "Invalid receiver")
	}

	err := d.cardRepo.TransferOwner(ctx, req.CardID, userID, req.ReceiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You do not own this card")
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer card: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TransferCardResponse{}, nil
}

func (d *cardDomain) creditCoins(ctx context.Context, userID string, amount uint64) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user := &entity.User{Base: entity.Base{ID: userID}}
	if err := d.userRepo.Upsert(ctx, user); err != nil {
		return err
	}

	if err := d.userRepo.IncreaseCoins(ctx, userID, amount); err != nil {
		return err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

// pickTier assigns a tier by the drop weights of the catalog. Video cards
// always get the animated tier, matching how they are sold in the shop.
func (d *cardDomain) pickTier(ctx context.Context, fileType entity.CardFileType) string {
	if fileType == entity.CardFileVideo {
		return "animated"
	}

	tiers := xcontext.Configs(ctx).Game.Tiers
	weights := make([]int, len(tiers))
	for i, t := range tiers {
		weights[i] = t.DropWeight
	}

	return tiers[crypto.RandWeighted(weights)].Key
}
