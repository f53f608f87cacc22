package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Booking lifecycle events. pending → confirmed/rejected/cancelled,
// confirmed → completed/cancelled; completed, rejected and cancelled are
// terminal and frozen.
const (
	EventAccept   = "accept"
	EventReject   = "reject"
	EventCancel   = "cancel"
	EventComplete = "complete"
)

type BookingService struct {
	db      *gorm.DB
	balance *BalanceService
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db, balance: NewBalanceService(db)}
}

type CreateBookingInput struct {
	StudentID       uuid.UUID
	TutorID         uuid.UUID
	ParentID        uuid.UUID
	Subject         string
	BookingDate     time.Time
	DurationHours   int
	LearningPackage string
	PaymentMethod   string
	Notes           *string
	StudentNotes    *string
}

// Create validates the request, snapshots the tutor's hourly rate, prices
// the booking from the package rules and writes the booking plus its
// pending payment in one transaction. The client never supplies a total.
func (s *BookingService) Create(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	switch actor.Role {
	case models.RoleAdmin:
		// manual bookings submitted on behalf of a family
	case models.RoleStudent:
		if actor.UserID != in.StudentID {
			return nil, fmt.Errorf("%w: students can only book for themselves", ErrUnauthorized)
		}
	case models.RoleParent:
		if actor.UserID != in.ParentID {
			return nil, fmt.Errorf("%w: parents can only book for their own family", ErrUnauthorized)
		}
	default:
		return nil, ErrUnauthorized
	}

	if !models.IsValidSubject(in.Subject) {
		return nil, fmt.Errorf("%w: unknown subject %q", ErrValidation, in.Subject)
	}
	if in.DurationHours <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if !in.BookingDate.After(time.Now()) {
		return nil, fmt.Errorf("%w: booking date must be in the future", ErrValidation)
	}
	if in.LearningPackage == "" {
		in.LearningPackage = "single"
	}
	pkg, ok := ledger.PackageByCode(in.LearningPackage)
	if !ok {
		return nil, fmt.Errorf("%w: unknown learning package %q", ErrValidation, in.LearningPackage)
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutor models.Teacher
		if err := tx.First(&tutor, "user_id = ?", in.TutorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: tutor", ErrNotFound)
			}
			return err
		}
		if !tutor.IsVerified {
			return fmt.Errorf("%w: tutor is not verified yet", ErrValidation)
		}

		total, err := pkg.Total(tutor.HourlyRate, in.DurationHours)
		if err != nil {
			return err
		}

		booking = models.Booking{
			StudentID:       in.StudentID,
			TutorID:         in.TutorID,
			ParentID:        in.ParentID,
			Subject:         in.Subject,
			BookingDate:     in.BookingDate,
			DurationHours:   in.DurationHours,
			LearningPackage: pkg.Code,
			HourlyRate:      tutor.HourlyRate,
			TotalAmount:     total,
			Status:          models.BookingPending,
			Notes:           in.Notes,
			StudentNotes:    in.StudentNotes,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		payment := models.Payment{
			BookingID: booking.ID,
			ParentID:  in.ParentID,
			Amount:    booking.TotalAmount,
			Status:    models.PaymentPending,
		}
		if in.PaymentMethod != "" {
			payment.PaymentMethod = &in.PaymentMethod
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Transition applies one lifecycle event under a row lock. Completion is
// the only event with a financial side effect: the tutor credit runs in the
// same transaction, and the terminal-state guard keeps a second complete
// from ever reaching it.
func (s *BookingService) Transition(ctx context.Context, bookingID uuid.UUID, event string, actor Actor) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: booking", ErrNotFound)
			}
			return err
		}

		switch event {
		case EventAccept:
			if err := s.requireTutorOrAdmin(actor, &booking); err != nil {
				return err
			}
			if booking.Status != models.BookingPending {
				return transitionError(&booking, event)
			}
			booking.Status = models.BookingConfirmed

		case EventReject:
			if err := s.requireTutorOrAdmin(actor, &booking); err != nil {
				return err
			}
			if booking.Status != models.BookingPending {
				return transitionError(&booking, event)
			}
			booking.Status = models.BookingRejected

		case EventCancel:
			if !s.isRequester(actor, &booking) && s.requireTutorOrAdmin(actor, &booking) != nil {
				return fmt.Errorf("%w: not a party to this booking", ErrUnauthorized)
			}
			if booking.IsTerminal() {
				return transitionError(&booking, event)
			}
			booking.Status = models.BookingCancelled

		case EventComplete:
			if err := s.requireTutorOrAdmin(actor, &booking); err != nil {
				return err
			}
			if booking.Status != models.BookingConfirmed {
				return transitionError(&booking, event)
			}

			var payment models.Payment
			if err := tx.First(&payment, "booking_id = ?", booking.ID).Error; err != nil {
				return err
			}
			// Current status only: a payment refunded before completion
			// blocks it, regardless of an earlier settlement.
			if payment.Status != models.PaymentPaid {
				return fmt.Errorf("%w: payment has not been settled", ErrInvalidTransition)
			}

			booking.Status = models.BookingCompleted
			if err := s.balance.Credit(tx, booking.TutorID, booking.TotalAmount); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%w: unknown event %q", ErrValidation, event)
		}

		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (s *BookingService) requireTutorOrAdmin(actor Actor, booking *models.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsTeacher() && actor.UserID == booking.TutorID {
		return nil
	}
	return fmt.Errorf("%w: not the tutor for this booking", ErrUnauthorized)
}

func (s *BookingService) isRequester(actor Actor, booking *models.Booking) bool {
	switch actor.Role {
	case models.RoleStudent:
		return actor.UserID == booking.StudentID
	case models.RoleParent:
		return actor.UserID == booking.ParentID
	}
	return false
}

func transitionError(booking *models.Booking, event string) error {
	return fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, event, booking.Status)
}
