package store

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"seatidle-backend/internal/model"
)

// ReportEvent applies one absolute-occupancy event: resolve the actor, move
// the seat counter when the actor is not staff, and append a log row. The
// seat update and the log append commit together or not at all.
func (s *gormStore) ReportEvent(ctx context.Context, occupancy int, eventType, userType, uid string) error {
	if occupancy < 0 {
		return fmt.Errorf("%w: occupancy must be non-negative", ErrInvalidInput)
	}
	if eventType == "" {
		eventType = model.EventUpdate
	}
	if userType == "" {
		userType = model.UserStudent
	}

	now := s.clock.Now()

	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if uid != "" {
			var staff model.StaffMember
			err := tx.First(&staff, "uid = ?", uid).Error
			switch {
			case err == nil:
				// Known badge: the event is a staff movement.
				userType = model.UserStaff
				updates := map[string]any{
					"is_present": eventType == model.EventEntry,
					"last_seen":  now,
				}
				if err := tx.Model(&model.StaffMember{}).Where("uid = ?", uid).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update staff presence: %w", err)
				}
			case err == gorm.ErrRecordNotFound:
				// Unknown badge, treat the event as a plain sensor signal.
			default:
				return fmt.Errorf("failed to look up staff badge: %w", err)
			}
		}

		if userType != model.UserStaff {
			total, err := totalCapacityTx(tx)
			if err != nil {
				return err
			}
			if err := setAvailableSeatsTx(tx, clamp(total-occupancy, 0, total)); err != nil {
				return err
			}
		}

		logRow := model.OccupancyLog{
			Timestamp: now,
			EventType: eventType,
			UserType:  userType,
			Occupancy: occupancy,
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return fmt.Errorf("failed to append occupancy log: %w", err)
		}
		return nil
	})
}

// AdjustSeats applies a signed delta from a sensor-style enter/exit signal.
// Entry is -1, exit is +1; the caller maps the direction.
func (s *gormStore) AdjustSeats(ctx context.Context, delta int) error {
	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return adjustSeatsTx(tx, delta)
	})
}

// ResetSeats is the admin override. It bypasses event logging.
func (s *gormStore) ResetSeats(ctx context.Context, target int) error {
	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total, err := totalCapacityTx(tx)
		if err != nil {
			return err
		}
		return setAvailableSeatsTx(tx, clamp(target, 0, total))
	})
}

// UpdateCapacity changes the total capacity while preserving the number of
// people currently inside, rather than the raw seat count.
func (s *gormStore) UpdateCapacity(ctx context.Context, newTotal int) error {
	if newTotal < 0 {
		return fmt.Errorf("%w: capacity must be non-negative", ErrInvalidInput)
	}

	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldTotal, err := totalCapacityTx(tx)
		if err != nil {
			return err
		}
		available, err := availableSeatsTx(tx)
		if err != nil {
			return err
		}

		peopleInside := oldTotal - available
		if peopleInside < 0 {
			peopleInside = 0
		}

		err = tx.Model(&model.Setting{}).
			Where("key = ?", model.SettingTotalCapacity).
			Update("value", strconv.Itoa(newTotal)).Error
		if err != nil {
			return fmt.Errorf("failed to update total capacity: %w", err)
		}
		return setAvailableSeatsTx(tx, clamp(newTotal-peopleInside, 0, newTotal))
	})
}

// --- transaction-scoped helpers ---

func adjustSeatsTx(tx *gorm.DB, delta int) error {
	total, err := totalCapacityTx(tx)
	if err != nil {
		return err
	}
	available, err := availableSeatsTx(tx)
	if err != nil {
		return err
	}
	return setAvailableSeatsTx(tx, clamp(available+delta, 0, total))
}

func totalCapacityTx(tx *gorm.DB) (int, error) {
	var setting model.Setting
	if err := tx.First(&setting, "key = ?", model.SettingTotalCapacity).Error; err != nil {
		return 0, fmt.Errorf("failed to read total capacity: %w", err)
	}
	total, err := strconv.Atoi(setting.Value)
	if err != nil {
		return 0, fmt.Errorf("corrupt total capacity value %q: %w", setting.Value, err)
	}
	return total, nil
}

func availableSeatsTx(tx *gorm.DB) (int, error) {
	var status model.SeatStatus
	if err := tx.First(&status, model.SeatStatusID).Error; err != nil {
		return 0, fmt.Errorf("failed to read seat status: %w", err)
	}
	return status.AvailableSeats, nil
}

func setAvailableSeatsTx(tx *gorm.DB, seats int) error {
	err := tx.Model(&model.SeatStatus{}).
		Where("id = ?", model.SeatStatusID).
		Update("available_seats", seats).Error
	if err != nil {
		return fmt.Errorf("failed to update seat status: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
