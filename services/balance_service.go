package services

import (
	"context"
	"errors"
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	balanceRetries = 3
	balanceBackoff = 10 * time.Millisecond
)

// BalanceService is the only code allowed to touch Teacher.AvailableBalance
// and Teacher.TotalEarnings. Both mutations are single conditional UPDATE
// statements keyed on the row's version column, so the non-negativity check
// and the write are atomic; a version miss is retried a bounded number of
// times before surfacing ErrConflict.
type BalanceService struct {
	db *gorm.DB
}

func NewBalanceService(db *gorm.DB) *BalanceService {
	return &BalanceService{db: db}
}

// Credit adds a completed booking's revenue to the tutor's available
// balance and lifetime earnings. Callers pass the transaction the booking
// transition runs in so both commit or roll back together.
func (s *BalanceService) Credit(tx *gorm.DB, tutorID uuid.UUID, amount ledger.Money) error {
	if amount <= 0 {
		return ledger.ErrInvalidAmount
	}
	return s.applyDelta(tx, tutorID, amount, false)
}

// Debit subtracts a withdrawal from the available balance. TotalEarnings is
// untouched: withdrawals move money out, they do not un-earn it. Fails with
// ErrInsufficientBalance when amount exceeds the balance at debit time.
func (s *BalanceService) Debit(tx *gorm.DB, tutorID uuid.UUID, amount ledger.Money) error {
	if amount <= 0 {
		return ledger.ErrInvalidAmount
	}
	return s.applyDelta(tx, tutorID, amount, true)
}

// Balance reads the current available balance and lifetime earnings.
func (s *BalanceService) Balance(ctx context.Context, tutorID uuid.UUID) (available, total ledger.Money, err error) {
	var teacher models.Teacher
	if err := s.db.WithContext(ctx).First(&teacher, "user_id = ?", tutorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}
	return teacher.AvailableBalance, teacher.TotalEarnings, nil
}

func (s *BalanceService) applyDelta(tx *gorm.DB, tutorID uuid.UUID, amount ledger.Money, debit bool) error {
	for attempt := 0; attempt < balanceRetries; attempt++ {
		var teacher models.Teacher
		if err := tx.First(&teacher, "user_id = ?", tutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if debit && teacher.AvailableBalance < amount {
			return ErrInsufficientBalance
		}

		updates := map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		}
		query := tx.Model(&models.Teacher{}).
			Where("user_id = ? AND version = ?", tutorID, teacher.Version)

		if debit {
			updates["available_balance"] = gorm.Expr("available_balance - ?", amount)
			query = query.Where("available_balance >= ?", amount)
		} else {
			updates["available_balance"] = gorm.Expr("available_balance + ?", amount)
			updates["total_earnings"] = gorm.Expr("total_earnings + ?", amount)
		}

		result := query.Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			return nil
		}

		// Version moved under us; re-read and retry.
		time.Sleep(balanceBackoff * time.Duration(attempt+1))
	}

	return ErrConflict
}
