package model

// Reservation is an OTP-keyed booking. The OTP is a 4-digit numeric string
// and doubles as the primary key. is_used flips false to true exactly once
// on redemption; cancellation deletes the row while unused.
type Reservation struct {
	OTP       string `gorm:"column:otp;primaryKey;size:8" json:"otp"`
	Name      string `gorm:"size:128;not null" json:"name"`
	ResDate   string `gorm:"size:32;not null" json:"res_date"`
	TimeSlot  string `gorm:"size:64;not null" json:"time_slot"`
	CreatedAt string `gorm:"not null" json:"created_at"`
	IsUsed    bool   `gorm:"not null" json:"is_used"`
}
