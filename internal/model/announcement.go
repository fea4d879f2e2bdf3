package model

// Announcement is a single admin-posted message. The dashboard shows the
// most recent one; the admin view lists the full history.
type Announcement struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Message   string `gorm:"not null" json:"message"`
	CreatedAt string `gorm:"not null" json:"created_at"`
}
