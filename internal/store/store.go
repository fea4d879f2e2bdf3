package store

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"seatidle-backend/internal/localtime"
	"seatidle-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Occupancy reconciler. All seat mutations serialize against the
	// seat-status singleton and commit atomically with their log append.
	ReportEvent(ctx context.Context, occupancy int, eventType, userType, uid string) error
	AdjustSeats(ctx context.Context, delta int) error
	ResetSeats(ctx context.Context, target int) error
	UpdateCapacity(ctx context.Context, newTotal int) error

	// Reservation ledger.
	CreateReservation(ctx context.Context, name, resDate, timeSlot string) (string, error)
	CancelReservation(ctx context.Context, otp string) error
	RedeemReservation(ctx context.Context, otp string) error
	DeleteReservation(ctx context.Context, otp string) error

	// Staff presence registry.
	ScanBadge(ctx context.Context, uid string) (string, error)
	AddStaff(ctx context.Context, uid, name string) error
	RemoveStaff(ctx context.Context, uid string) error
	RenameStaff(ctx context.Context, uid, name string) error

	// Announcement board.
	PostAnnouncement(ctx context.Context, message string) (model.Announcement, error)
	EditAnnouncement(ctx context.Context, id int64, message string) error
	DeleteAnnouncement(ctx context.Context, id int64) error

	// Settings.
	ToggleSystemStatus(ctx context.Context) (bool, error)

	// Read side.
	DashboardStats(ctx context.Context) (Dashboard, error)
	AdminOverview(ctx context.Context) (Overview, error)
	RecentLogs(ctx context.Context, limit int) ([]model.OccupancyLog, error)
	PresentStaff(ctx context.Context) ([]model.StaffMember, error)
	AllStaff(ctx context.Context) ([]model.StaffMember, error)
	OpenReservations(ctx context.Context) ([]model.Reservation, error)
	AllReservations(ctx context.Context) ([]model.Reservation, error)
	Announcements(ctx context.Context) ([]model.Announcement, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db    *gorm.DB
	clock *localtime.Clock

	// seatMu serializes every read-modify-write of the seat-status
	// singleton so concurrent mutations cannot lose updates.
	seatMu sync.Mutex
}

// New creates a new GORM-backed store.
func New(db *gorm.DB, clock *localtime.Clock) Store {
	return &gormStore{db: db, clock: clock}
}

// DB exposes the underlying handle for read-only queries and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
