package model

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Coins uint64 `json:"coins"`
}

type ClaimDailyRequest struct{}

type ClaimDailyResponse struct {
	Amount uint64 `json:"amount"`
	Coins  uint64 `json:"coins"`
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Coins  uint64 `json:"coins"`
}

type GetLeaderboardRequest struct {
	Limit int `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
