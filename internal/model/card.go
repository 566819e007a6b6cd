package model

type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Series    string `json:"series"`
	Tier      string `json:"tier"`
	TierLabel string `json:"tier_label"`
	FileType  string `json:"file_type"`
	FileID    string `json:"file_id"`
	OwnerID   string `json:"owner_id,omitempty"`
}

type ClaimCardRequest struct {
	CardID string `json:"card_id"`
}

type ClaimCardResponse struct {
	Card   Card   `json:"card"`
	Reward uint64 `json:"reward"`
}

type CreateCardRequest struct {
	Name     string `json:"name"`
	Series   string `json:"series"`
	FileType string `json:"file_type"`
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

type CreateCardResponse struct {
	Card Card `json:"card"`
}

type GetCardRequest struct {
	CardID string `json:"card_id"`
}

type GetCardResponse struct {
	Card Card `json:"card"`
}

type GetMyCardsRequest struct{}

type GetMyCardsResponse struct {
	Cards []Card `json:"cards"`
}

type SearchCardsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type SearchCardsResponse struct {
	Cards []Card `json:"cards"`
}

type TransferCardRequest struct {
	CardID     string `json:"card_id"`
	ReceiverID string `json:"receiver_id"`
}

type TransferCardResponse struct{}
