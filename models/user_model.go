package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`
	Phone    *string   `gorm:"size:30" json:"phone"`
	IsActive bool      `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
