package model

type RegisterActivityRequest struct {
	GroupID string `json:"group_id"`
}

type RegisterActivityResponse struct {
	Count   int  `json:"count"`
	Crossed bool `json:"crossed"`
}

type TryDropRequest struct {
	GroupID string `json:"group_id"`
}

type TryDropResponse struct {
	// Suppressed reports that another drop for this group happened within the
	// debounce window. No offer is published in that case.
	Suppressed bool `json:"suppressed"`

	// GroupID and Card together form the claim token published to the group.
	GroupID string `json:"group_id,omitempty"`
	Card    Card   `json:"card,omitempty"`
}

type GetDropThresholdRequest struct{}

type GetDropThresholdResponse struct {
	Threshold int `json:"threshold"`
}

type SetDropThresholdRequest struct {
	Threshold int `json:"threshold"`
}

type SetDropThresholdResponse struct{}
