package models

import (
	"time"

	"github.com/dwisetyo88/bimbel_online/ledger"
	"github.com/google/uuid"
)

// Teacher carries the tutor profile subset the marketplace needs plus the
// earnings ledger. AvailableBalance and TotalEarnings are mutated only by
// services.BalanceService; Version backs its optimistic-concurrency check.
type Teacher struct {
	UserID          uuid.UUID    `gorm:"primary_key" json:"user_id"`
	Bio             *string      `gorm:"type:text" json:"bio"`
	Subjects        string       `gorm:"size:255;not null" json:"subjects"`
	EducationLevels string       `gorm:"size:100" json:"education_levels"`
	ExperienceYears int          `gorm:"default:0" json:"experience_years"`
	HourlyRate      ledger.Money `gorm:"not null" json:"hourly_rate"`
	IsVerified      bool         `gorm:"default:false" json:"is_verified"`

	AvailableBalance ledger.Money `gorm:"not null;default:0" json:"-"`
	TotalEarnings    ledger.Money `gorm:"not null;default:0" json:"-"`
	Version          int64        `gorm:"not null;default:0" json:"-"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
