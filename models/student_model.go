package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LevelSD     = "sd"
	LevelSMP    = "smp"
	LevelSMA    = "sma"
	LevelKuliah = "kuliah"
)

type Student struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID  `gorm:"not null" json:"user_id"`
	ParentID       *uuid.UUID `json:"parent_id"`
	EducationLevel string     `gorm:"size:20;not null" json:"education_level"`
	SchoolName     *string    `gorm:"size:255" json:"school_name"`

	User User `gorm:"foreignkey:UserID" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
