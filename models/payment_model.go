package models

import (
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment is created in the same transaction as its Booking, 1:1, with
// Amount forked from Booking.TotalAmount. Its status moves independently of
// the booking state machine (admin action or gateway webhook).
type Payment struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	BookingID     uuid.UUID    `gorm:"not null;unique" json:"booking_id"`
	ParentID      uuid.UUID    `gorm:"not null" json:"parent_id"`
	Amount        ledger.Money `gorm:"not null" json:"amount"`
	PaymentMethod *string      `gorm:"size:50" json:"payment_method"`
	Status        string       `gorm:"size:20;not null;default:'pending'" json:"status"`
	TransactionID *string      `gorm:"size:255" json:"transaction_id"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
