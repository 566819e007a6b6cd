package entity

const SettingDropThreshold = "drop_threshold"

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}
