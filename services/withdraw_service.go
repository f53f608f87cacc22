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

// WithdrawService runs the request → admin decision workflow. The balance
// is only debited at approval time; a request sitting in the queue reserves
// nothing, so the approval re-checks the balance before committing.
type WithdrawService struct {
	db      *gorm.DB
	balance *BalanceService
}

func NewWithdrawService(db *gorm.DB) *WithdrawService {
	return &WithdrawService{db: db, balance: NewBalanceService(db)}
}

// Request files a withdrawal for the acting teacher. The balance check here
// is advisory, it keeps obviously hopeless requests out of the admin queue
// but the binding check happens at approval.
func (s *WithdrawService) Request(ctx context.Context, actor Actor, amount ledger.Money, bankAccount string) (*models.WithdrawRequest, error) {
	if !actor.IsTeacher() {
		return nil, fmt.Errorf("%w: only teachers can request withdrawals", ErrUnauthorized)
	}
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	available, _, err := s.balance.Balance(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if amount > available {
		return nil, fmt.Errorf("%w: requested %d with %d available", ErrInsufficientBalance, amount, available)
	}

	request := models.WithdrawRequest{
		TutorID:     actor.UserID,
		Amount:      amount,
		Status:      models.WithdrawPending,
		RequestedAt: time.Now(),
	}
	if bankAccount != "" {
		request.BankAccount = &bankAccount
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// Approve debits the tutor's balance and marks the request approved in one
// transaction. If the balance dropped below the amount since the request
// was filed, the debit fails, nothing is written and the request stays
// pending for the admin to retry or reject.
func (s *WithdrawService) Approve(ctx context.Context, actor Actor, requestID uuid.UUID, adminNotes string) (*models.WithdrawRequest, error) {
	return s.process(ctx, actor, requestID, func(tx *gorm.DB, request *models.WithdrawRequest) error {
		if request.Status != models.WithdrawPending {
			return fmt.Errorf("%w: cannot approve a %s request", ErrInvalidTransition, request.Status)
		}
		if err := s.balance.Debit(tx, request.TutorID, request.Amount); err != nil {
			return err
		}
		request.Status = models.WithdrawApproved
		s.stamp(request, adminNotes)
		return nil
	})
}

// Reject closes a pending request with no balance effect.
func (s *WithdrawService) Reject(ctx context.Context, actor Actor, requestID uuid.UUID, adminNotes string) (*models.WithdrawRequest, error) {
	return s.process(ctx, actor, requestID, func(tx *gorm.DB, request *models.WithdrawRequest) error {
		if request.Status != models.WithdrawPending {
			return fmt.Errorf("%w: cannot reject a %s request", ErrInvalidTransition, request.Status)
		}
		request.Status = models.WithdrawRejected
		s.stamp(request, adminNotes)
		return nil
	})
}

// Complete records the external transfer confirmation for an approved
// request. Pure bookkeeping, the balance was already debited at approval.
func (s *WithdrawService) Complete(ctx context.Context, actor Actor, requestID uuid.UUID) (*models.WithdrawRequest, error) {
	return s.process(ctx, actor, requestID, func(tx *gorm.DB, request *models.WithdrawRequest) error {
		if request.Status != models.WithdrawApproved {
			return fmt.Errorf("%w: cannot complete a %s request", ErrInvalidTransition, request.Status)
		}
		request.Status = models.WithdrawCompleted
		return nil
	})
}

func (s *WithdrawService) process(ctx context.Context, actor Actor, requestID uuid.UUID, apply func(*gorm.DB, *models.WithdrawRequest) error) (*models.WithdrawRequest, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}

	var request models.WithdrawRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: withdraw request", ErrNotFound)
			}
			return err
		}
		if err := apply(tx, &request); err != nil {
			return err
		}
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *WithdrawService) stamp(request *models.WithdrawRequest, adminNotes string) {
	now := time.Now()
	request.ProcessedAt = &now
	if adminNotes != "" {
		request.AdminNotes = &adminNotes
	}
}
