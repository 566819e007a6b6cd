package entity

import "time"

type BannedUser struct {
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}
