package model

// Event and user type values recorded in the occupancy log.
const (
	EventEntry  = "ENTRY"
	EventExit   = "EXIT"
	EventUpdate = "UPDATE"

	UserStudent = "STUDENT"
	UserStaff   = "STAFF"
)

// OccupancyLog is one occupancy-affecting event. Rows are append-only and
// keep the raw occupancy value as reported by the device, not the clamped
// seat count derived from it.
type OccupancyLog struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp string `gorm:"not null" json:"timestamp"`
	EventType string `gorm:"size:16;not null" json:"event_type"`
	UserType  string `gorm:"size:16;not null" json:"user_type"`
	Occupancy int    `gorm:"not null" json:"occupancy"`
}
