package model

// Setting is a key/value row of process-wide configuration state, mutated
// only through admin operations and persisted across restarts.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// Setting keys.
const (
	SettingSystemStatus  = "system_status"
	SettingTotalCapacity = "total_capacity"
)
