package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Game      GameConfigs
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver string

	Host     string
	Port     string
	Database string
	User     string
	Password string

	// SQLitePath is only used with the sqlite driver.
	SQLitePath string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// TierConfigs describes one rarity tier of the catalog. Price is the shop
// cost, DropWeight governs the probability a newly registered card receives
// this tier.
type TierConfigs struct {
	Key        string `toml:"key"`
	Label      string `toml:"label"`
	Price      uint64 `toml:"price"`
	DropWeight int    `toml:"drop_weight"`
}

type GameConfigs struct {
	// DropThreshold is the default number of group messages which triggers a
	// card drop. It can be overridden at runtime through the settings store.
	DropThreshold int

	// DropDebounce suppresses a second drop for the same group within this
	// window after the previous one.
	DropDebounce time.Duration

	ClaimReward   uint64
	DailyReward   uint64
	DailyCooldown time.Duration

	// Moderators are account ids allowed to call administrative operations.
	Moderators []string

	// Tiers is the ordered tier catalog. It is immutable at runtime.
	Tiers []TierConfigs
}

func (g GameConfigs) Tier(key string) (TierConfigs, bool) {
	for _, t := range g.Tiers {
		if t.Key == key {
			return t, true
		}
	}

	return TierConfigs{}, false
}

func (g GameConfigs) IsModerator(userID string) bool {
	for _, id := range g.Moderators {
		if id == userID {
			return true
		}
	}

	return false
}

// DefaultTiers returns the built-in tier catalog, used when no catalog file
// is configured.
func DefaultTiers() []TierConfigs {
	return []TierConfigs{
		{Key: "common", Label: "⚪ Common", Price: 50, DropWeight: 40},
		{Key: "uncommon", Label: "🟢 Uncommon", Price: 80, DropWeight: 25},
		{Key: "rare", Label: "🔵 Rare", Price: 150, DropWeight: 12},
		{Key: "epic", Label: "🟣 Epic", Price: 300, DropWeight: 8},
		{Key: "legendary", Label: "🟠 Legendary", Price: 600, DropWeight: 5},
		{Key: "mythic", Label: "🔴 Mythic", Price: 800, DropWeight: 4},
		{Key: "divine", Label: "🟡 Divine", Price: 1200, DropWeight: 3},
		{Key: "celestial", Label: "💎 Celestial", Price: 2000, DropWeight: 1},
		{Key: "supreme", Label: "👑 Supreme", Price: 3000, DropWeight: 1},
		{Key: "animated", Label: "✨ Animated", Price: 1000, DropWeight: 1},
	}
}
