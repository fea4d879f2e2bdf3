package model

// SeatStatus holds the current number of available seats. A single row with
// ID 1 exists for the whole site; total capacity lives in the settings table.
type SeatStatus struct {
	ID             int64 `gorm:"primaryKey" json:"-"`
	AvailableSeats int   `gorm:"not null" json:"available_seats"`
}

// TableName keeps the singular table name; there is only ever one row.
func (SeatStatus) TableName() string { return "seat_status" }

// SeatStatusID is the fixed primary key of the singleton row.
const SeatStatusID int64 = 1
