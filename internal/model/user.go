package model

type BanUserRequest struct {
	UserID string `json:"user_id"`
}

type BanUserResponse struct{}

type UnbanUserRequest struct {
	UserID string `json:"user_id"`
}

type UnbanUserResponse struct{}
