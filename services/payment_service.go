package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService owns the payment status lifecycle, independent of the
// booking state machine. Payment confirmation is an external event (admin
// action or gateway webhook); the booking machine only reads it.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// MarkPaid settles a payment. Marking an already-paid payment paid again is
// a no-op, so gateway webhook retries are harmless. A failed payment may
// still settle on a later retry.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID uuid.UUID, transactionID *string) (*models.Payment, error) {
	return s.mark(ctx, paymentID, func(payment *models.Payment) (bool, error) {
		switch payment.Status {
		case models.PaymentPaid:
			return false, nil
		case models.PaymentPending, models.PaymentFailed:
			payment.Status = models.PaymentPaid
			if transactionID != nil {
				payment.TransactionID = transactionID
			}
			return true, nil
		default:
			return false, fmt.Errorf("%w: cannot mark a %s payment as paid", ErrInvalidTransition, payment.Status)
		}
	})
}

func (s *PaymentService) MarkFailed(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	return s.mark(ctx, paymentID, func(payment *models.Payment) (bool, error) {
		switch payment.Status {
		case models.PaymentFailed:
			return false, nil
		case models.PaymentPending:
			payment.Status = models.PaymentFailed
			return true, nil
		default:
			return false, fmt.Errorf("%w: cannot mark a %s payment as failed", ErrInvalidTransition, payment.Status)
		}
	})
}

// MarkRefunded is only valid from paid. Refunds after a rejected or
// cancelled booking are a deliberate admin action, never automatic.
func (s *PaymentService) MarkRefunded(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	return s.mark(ctx, paymentID, func(payment *models.Payment) (bool, error) {
		if payment.Status != models.PaymentPaid {
			return false, fmt.Errorf("%w: only paid payments can be refunded", ErrInvalidTransition)
		}
		payment.Status = models.PaymentRefunded
		return true, nil
	})
}

func (s *PaymentService) mark(ctx context.Context, paymentID uuid.UUID, apply func(*models.Payment) (bool, error)) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment", ErrNotFound)
			}
			return err
		}

		changed, err := apply(&payment)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
