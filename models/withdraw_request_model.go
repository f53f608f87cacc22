package models

import (
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WithdrawPending   = "pending"
	WithdrawApproved  = "approved"
	WithdrawRejected  = "rejected"
	WithdrawCompleted = "completed"
)

// WithdrawRequest does not debit the balance when filed. The debit happens
// at admin approval, where the balance is re-checked; approved → completed
// only records the external transfer confirmation.
type WithdrawRequest struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	TutorID     uuid.UUID    `gorm:"not null" json:"tutor_id"`
	Amount      ledger.Money `gorm:"not null" json:"amount"`
	BankAccount *string      `gorm:"size:100" json:"bank_account"`
	Status      string       `gorm:"size:20;not null;default:'pending'" json:"status"`
	AdminNotes  *string      `gorm:"type:text" json:"admin_notes"`
	RequestedAt time.Time    `gorm:"not null" json:"requested_at"`
	ProcessedAt *time.Time   `json:"processed_at"`

	Tutor Teacher `gorm:"foreignkey:TutorID" json:"-"`
}

func (w *WithdrawRequest) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
