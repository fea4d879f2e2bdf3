package model

// StaffMember is a staff RFID badge. Presence is tracked independently of
// the public seat counter: staff entries and exits never move seats.
type StaffMember struct {
	UID       string `gorm:"primaryKey;size:64" json:"uid"`
	Name      string `gorm:"size:128;not null" json:"name"`
	IsPresent bool   `gorm:"not null" json:"is_present"`
	LastSeen  string `gorm:"not null" json:"last_seen"`
}

// TableName keeps the original table name.
func (StaffMember) TableName() string { return "staff" }
