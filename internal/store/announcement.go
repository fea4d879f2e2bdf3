package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"seatidle-backend/internal/model"
)

// PostAnnouncement appends a message to the board and returns the stored row.
func (s *gormStore) PostAnnouncement(ctx context.Context, message string) (model.Announcement, error) {
	ann := model.Announcement{
		Message:   message,
		CreatedAt: s.clock.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&ann).Error; err != nil {
		return model.Announcement{}, fmt.Errorf("failed to post announcement: %w", err)
	}
	return ann, nil
}

// EditAnnouncement rewrites the message of an existing entry.
func (s *gormStore) EditAnnouncement(ctx context.Context, id int64, message string) error {
	res := s.db.WithContext(ctx).Model(&model.Announcement{}).Where("id = ?", id).Update("message", message)
	if res.Error != nil {
		return fmt.Errorf("failed to edit announcement %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAnnouncement removes an entry by id.
func (s *gormStore) DeleteAnnouncement(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&model.Announcement{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete announcement %d: %w", id, err)
	}
	return nil
}

// ToggleSystemStatus flips the public system on/off flag and returns the new
// state. The flag only gates what the dashboard shows; ingestion continues
// while disabled.
func (s *gormStore) ToggleSystemStatus(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var setting model.Setting
		if err := tx.First(&setting, "key = ?", model.SettingSystemStatus).Error; err != nil {
			return fmt.Errorf("failed to read system status: %w", err)
		}
		next := "1"
		if setting.Value == "1" {
			next = "0"
		}
		if err := tx.Model(&model.Setting{}).Where("key = ?", model.SettingSystemStatus).Update("value", next).Error; err != nil {
			return fmt.Errorf("failed to toggle system status: %w", err)
		}
		enabled = next == "1"
		return nil
	})
	return enabled, err
}
