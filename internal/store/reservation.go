package store

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"

	"gorm.io/gorm"

	"seatidle-backend/internal/model"
)

// otpAttempts bounds how often reservation creation retries after landing
// on an already-issued code before giving up with ErrOTPExhausted.
const otpAttempts = 25

var otpPattern = regexp.MustCompile(`^\d{4}$`)

// CreateReservation books a slot and returns the freshly issued 4-digit OTP.
func (s *gormStore) CreateReservation(ctx context.Context, name, resDate, timeSlot string) (string, error) {
	now := s.clock.Now()

	var otp string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < otpAttempts; attempt++ {
			candidate := fmt.Sprintf("%04d", 1000+rand.Intn(9000))

			var count int64
			if err := tx.Model(&model.Reservation{}).Where("otp = ?", candidate).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check otp uniqueness: %w", err)
			}
			if count > 0 {
				continue
			}

			res := model.Reservation{
				OTP:       candidate,
				Name:      name,
				ResDate:   resDate,
				TimeSlot:  timeSlot,
				CreatedAt: now,
			}
			if err := tx.Create(&res).Error; err != nil {
				return fmt.Errorf("failed to create reservation: %w", err)
			}
			otp = candidate
			return nil
		}
		return ErrOTPExhausted
	})
	if err != nil {
		return "", err
	}
	return otp, nil
}

// CancelReservation deletes an unused booking. A missing OTP and an already
// redeemed one fail identically.
func (s *gormStore) CancelReservation(ctx context.Context, otp string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("otp = ? AND is_used = ?", otp, false).Delete(&model.Reservation{})
		if res.Error != nil {
			return fmt.Errorf("failed to cancel reservation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFoundOrUsed
		}
		return nil
	})
}

// RedeemReservation marks an OTP as used and consumes one seat, atomically.
// Every failure mode collapses into ErrAccessDenied.
func (s *gormStore) RedeemReservation(ctx context.Context, otp string) error {
	if !otpPattern.MatchString(otp) {
		return ErrAccessDenied
	}

	s.seatMu.Lock()
	defer s.seatMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Reservation{}).
			Where("otp = ? AND is_used = ?", otp, false).
			Update("is_used", true)
		if res.Error != nil {
			return fmt.Errorf("failed to redeem reservation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAccessDenied
		}
		return adjustSeatsTx(tx, -1)
	})
}

// DeleteReservation is the admin removal, regardless of state.
func (s *gormStore) DeleteReservation(ctx context.Context, otp string) error {
	if err := s.db.WithContext(ctx).Where("otp = ?", otp).Delete(&model.Reservation{}).Error; err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}
