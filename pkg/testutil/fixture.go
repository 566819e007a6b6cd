package testutil

import (
	"context"

	"github.com/catchcard/backend/internal/entity"
	"github.com/catchcard/backend/internal/repository"
)

var (
	User1 = &entity.User{
		Base:  entity.Base{ID: "user1"},
		Name:  "user1",
		Coins: 200,
	}

	User2 = &entity.User{
		Base:  entity.Base{ID: "user2"},
		Name:  "user2",
		Coins: 50,
	}

	Moderator = &entity.User{
		Base:  entity.Base{ID: "moderator"},
		Name:  "moderator",
		Coins: 0,
	}

	Card1 = &entity.Card{
		Base:     entity.Base{ID: "card1"},
		Name:     "Aung La",
		Series:   "Fighters",
		Tier:     "rare",
		FileType: entity.CardFilePhoto,
		FileID:   "file1",
	}

	Card2 = &entity.Card{
		Base:     entity.Base{ID: "card2"},
		Name:     "Min Thway",
		Series:   "Fighters",
		Tier:     "rare",
		FileType: entity.CardFilePhoto,
		FileID:   "file2",
	}

	Card3 = &entity.Card{
		Base:     entity.Base{ID: "card3"},
		Name:     "Moe Moe",
		Series:   "Classics",
		Tier:     "rare",
		FileType: entity.CardFilePhoto,
		FileID:   "file3",
	}

	Card4 = &entity.Card{
		Base:     entity.Base{ID: "card4"},
		Name:     "Shwe Yee",
		Series:   "Classics",
		Tier:     "mythic",
		FileType: entity.CardFilePhoto,
		FileID:   "file4",
	}
)

// CreateFixtureDb populates the database of ctx with two users with coins,
// one moderator, three unowned rare cards, and one unowned mythic card.
func CreateFixtureDb(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []*entity.User{User1, User2, Moderator} {
		u := *user
		if err := userRepo.Upsert(ctx, &u); err != nil {
			panic(err)
		}
	}

	cardRepo := repository.NewCardRepository()
	for _, card := range []*entity.Card{Card1, Card2, Card3, Card4} {
		c := *card
		if err := cardRepo.Create(ctx, &c); err != nil {
			panic(err)
		}
	}
}
