package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seatidle-backend/internal/model"
)

// Scan result strings returned to the badge reader.
const (
	ScanUnknownCardAdded = "UNKNOWN_CARD_ADDED"
)

// ScanBadge toggles presence for a known badge and auto-enrolls an unknown
// one as present. Auto-enrollment is a fail-open policy for physical access
// logging: an unrecognized card still leaves a trace.
func (s *gormStore) ScanBadge(ctx context.Context, uid string) (string, error) {
	now := s.clock.Now()

	var status string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff model.StaffMember
		err := tx.First(&staff, "uid = ?", uid).Error
		if err == gorm.ErrRecordNotFound {
			unknown := model.StaffMember{
				UID:       uid,
				Name:      "Unknown User",
				IsPresent: true,
				LastSeen:  now,
			}
			if err := tx.Create(&unknown).Error; err != nil {
				return fmt.Errorf("failed to auto-enroll badge %s: %w", uid, err)
			}
			status = ScanUnknownCardAdded
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up badge %s: %w", uid, err)
		}

		updates := map[string]any{
			"is_present": !staff.IsPresent,
			"last_seen":  now,
		}
		if err := tx.Model(&model.StaffMember{}).Where("uid = ?", uid).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to toggle presence for %s: %w", uid, err)
		}
		status = fmt.Sprintf("Updated %s", staff.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// AddStaff enrolls a badge, replacing any existing entry with the same uid.
func (s *gormStore) AddStaff(ctx context.Context, uid, name string) error {
	staff := model.StaffMember{
		UID:      uid,
		Name:     name,
		LastSeen: s.clock.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_present", "last_seen"}),
	}).Create(&staff).Error
	if err != nil {
		return fmt.Errorf("failed to add staff %s: %w", uid, err)
	}
	return nil
}

// RemoveStaff deletes a badge.
func (s *gormStore) RemoveStaff(ctx context.Context, uid string) error {
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.StaffMember{}).Error; err != nil {
		return fmt.Errorf("failed to remove staff %s: %w", uid, err)
	}
	return nil
}

// RenameStaff updates the display name of an existing badge.
func (s *gormStore) RenameStaff(ctx context.Context, uid, name string) error {
	res := s.db.WithContext(ctx).Model(&model.StaffMember{}).Where("uid = ?", uid).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("failed to rename staff %s: %w", uid, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
