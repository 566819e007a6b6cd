package entity

import "github.com/catchcard/backend/pkg/enum"

type CardFileType string

var (
	CardFilePhoto = enum.New(CardFileType("photo"))
	CardFileVideo = enum.New(CardFileType("video"))
)

// Card is one unit of the collectible catalog. A card belongs to at most one
// user at a time.
type Card struct {
	Base

	Name   string
	Series string

	// Tier is a key into the tier catalog of the game configs.
	Tier string `gorm:"index"`

	FileType CardFileType
	FileID   string
	FilePath string

	// OwnerID is empty while the card sits in the drop pool. It is only
	// assigned by a conditional update, so a card never gets two owners.
	OwnerID string `gorm:"index"`
}
