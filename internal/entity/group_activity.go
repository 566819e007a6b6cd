package entity

import "time"

// GroupActivity tallies messages of one chat group. The counter is reset in
// the same transaction which observes it crossing the drop threshold.
type GroupActivity struct {
	GroupID string `gorm:"primaryKey"`

	MessagesCount  int
	LastDropCardID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
