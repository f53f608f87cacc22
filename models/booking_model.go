package models

import (
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
	BookingRejected  = "rejected"
)

// Subjects offered on the platform. Anything else is rejected at booking
// creation.
var Subjects = []string{
	"matematika",
	"fisika",
	"kimia",
	"biologi",
	"bahasa_inggris",
	"bahasa_indonesia",
	"sejarah",
	"geografi",
	"ekonomi",
	"akuntansi",
}

func IsValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// Booking pricing is a snapshot: HourlyRate is copied from the tutor at
// creation and TotalAmount is computed once. If terms change, a new booking
// is created, these fields are never re-priced.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentID uuid.UUID `gorm:"not null" json:"student_id"`
	TutorID   uuid.UUID `gorm:"not null" json:"tutor_id"`
	ParentID  uuid.UUID `gorm:"not null" json:"parent_id"`

	Subject         string       `gorm:"size:50;not null" json:"subject"`
	BookingDate     time.Time    `gorm:"not null" json:"booking_date"`
	DurationHours   int          `gorm:"not null" json:"duration_hours"`
	LearningPackage string       `gorm:"size:20;not null;default:'single'" json:"learning_package"`
	HourlyRate      ledger.Money `gorm:"not null" json:"hourly_rate"`
	TotalAmount     ledger.Money `gorm:"not null" json:"total_amount"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	Notes        *string `gorm:"type:text" json:"notes"`
	StudentNotes *string `gorm:"type:text" json:"student_notes"`
	TutorNotes   *string `gorm:"type:text" json:"tutor_notes"`

	Student User    `gorm:"foreignkey:StudentID" json:"-"`
	Tutor   Teacher `gorm:"foreignkey:TutorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingCompleted, BookingCancelled, BookingRejected:
		return true
	}
	return false
}
