package store

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"seatidle-backend/internal/model"
)

// Dashboard is the public read model: seat counts plus the headline numbers
// the landing page shows.
type Dashboard struct {
	Seats            int    `json:"seats"`
	Occupancy        int    `json:"occupancy"`
	StaffCount       int64  `json:"staff"`
	ReservationCount int64  `json:"reservations"`
	SystemEnabled    bool   `json:"system_status"`
	Announcement     string `json:"announcement"`
	AnnouncementTime string `json:"announcement_time"`
}

// Overview is the admin read model.
type Overview struct {
	Seats         int  `json:"seats"`
	TotalCapacity int  `json:"total_capacity"`
	SystemEnabled bool `json:"system_status"`
}

// DashboardStats assembles the public dashboard numbers in one round trip set.
func (s *gormStore) DashboardStats(ctx context.Context) (Dashboard, error) {
	db := s.db.WithContext(ctx)

	seats, total, enabled, err := readCoreState(db)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Seats:         seats,
		Occupancy:     clamp(total-seats, 0, total),
		SystemEnabled: enabled,
	}

	if err := db.Model(&model.StaffMember{}).Where("is_present = ?", true).Count(&d.StaffCount).Error; err != nil {
		return Dashboard{}, fmt.Errorf("failed to count present staff: %w", err)
	}
	if err := db.Model(&model.Reservation{}).Where("is_used = ?", false).Count(&d.ReservationCount).Error; err != nil {
		return Dashboard{}, fmt.Errorf("failed to count open reservations: %w", err)
	}

	var ann model.Announcement
	err = db.Order("id DESC").First(&ann).Error
	switch {
	case err == nil:
		d.Announcement = ann.Message
		d.AnnouncementTime = ann.CreatedAt
	case err == gorm.ErrRecordNotFound:
		// No announcement yet.
	default:
		return Dashboard{}, fmt.Errorf("failed to read latest announcement: %w", err)
	}

	return d, nil
}

// AdminOverview returns the admin console headline state.
func (s *gormStore) AdminOverview(ctx context.Context) (Overview, error) {
	seats, total, enabled, err := readCoreState(s.db.WithContext(ctx))
	if err != nil {
		return Overview{}, err
	}
	return Overview{Seats: seats, TotalCapacity: total, SystemEnabled: enabled}, nil
}

// RecentLogs returns the newest occupancy events, newest first.
func (s *gormStore) RecentLogs(ctx context.Context, limit int) ([]model.OccupancyLog, error) {
	var logs []model.OccupancyLog
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to read occupancy logs: %w", err)
	}
	return logs, nil
}

// PresentStaff returns all staff currently marked inside.
func (s *gormStore) PresentStaff(ctx context.Context) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	if err := s.db.WithContext(ctx).Where("is_present = ?", true).Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to read present staff: %w", err)
	}
	return staff, nil
}

// AllStaff returns every enrolled badge for the admin view.
func (s *gormStore) AllStaff(ctx context.Context) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	if err := s.db.WithContext(ctx).Order("uid").Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to read staff: %w", err)
	}
	return staff, nil
}

// OpenReservations returns unused bookings, newest first.
func (s *gormStore) OpenReservations(ctx context.Context) ([]model.Reservation, error) {
	var res []model.Reservation
	if err := s.db.WithContext(ctx).Where("is_used = ?", false).Order("created_at DESC").Find(&res).Error; err != nil {
		return nil, fmt.Errorf("failed to read open reservations: %w", err)
	}
	return res, nil
}

// AllReservations returns every booking, newest first, for the admin view.
func (s *gormStore) AllReservations(ctx context.Context) ([]model.Reservation, error) {
	var res []model.Reservation
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&res).Error; err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}
	return res, nil
}

// Announcements returns the full history, newest first.
func (s *gormStore) Announcements(ctx context.Context) ([]model.Announcement, error) {
	var anns []model.Announcement
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&anns).Error; err != nil {
		return nil, fmt.Errorf("failed to read announcements: %w", err)
	}
	return anns, nil
}

func readCoreState(db *gorm.DB) (seats, total int, enabled bool, err error) {
	var status model.SeatStatus
	if err = db.First(&status, model.SeatStatusID).Error; err != nil {
		return 0, 0, false, fmt.Errorf("failed to read seat status: %w", err)
	}

	var capSetting model.Setting
	if err = db.First(&capSetting, "key = ?", model.SettingTotalCapacity).Error; err != nil {
		return 0, 0, false, fmt.Errorf("failed to read total capacity: %w", err)
	}
	total, err = strconv.Atoi(capSetting.Value)
	if err != nil {
		return 0, 0, false, fmt.Errorf("corrupt total capacity value %q: %w", capSetting.Value, err)
	}

	var statusSetting model.Setting
	if err = db.First(&statusSetting, "key = ?", model.SettingSystemStatus).Error; err != nil {
		return 0, 0, false, fmt.Errorf("failed to read system status: %w", err)
	}

	return status.AvailableSeats, total, statusSetting.Value == "1", nil
}
