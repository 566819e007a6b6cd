package entity

import "database/sql"

// User is created lazily on the first balance-affecting operation. Coins
// never goes below zero: every debit is a conditional update guarded by the
// current balance.
type User struct {
	Base

	Name  string
	Coins uint64

	LastDailyClaim sql.NullTime
}
