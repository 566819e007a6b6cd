package model

type ShopItem struct {
	Tier      string `json:"tier"`
	Label     string `json:"label"`
	Price     uint64 `json:"price"`
	Available int64  `json:"available"`
}

type ListShopRequest struct{}

type ListShopResponse struct {
	Items []ShopItem `json:"items"`
}

type BuyCardRequest struct {
	Tier string `json:"tier"`
}

type BuyCardResponse struct {
	Card           Card   `json:"card"`
	RemainingCoins uint64 `json:"remaining_coins"`
}
