package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Parent struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"not null;unique" json:"user_id"`
	Phone   *string   `gorm:"size:30" json:"phone"`
	Address *string   `gorm:"type:text" json:"address"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Parent) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
