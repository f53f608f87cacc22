package services

import (
	"github.com/dwisetyo88/bimbel_online/models"
	"github.com/google/uuid"
)

// Actor is the resolved identity behind a request, built by the handlers
// from the JWT claims. Services authorize transitions against it instead of
// touching the transport layer.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) IsTeacher() bool {
	return a.Role == models.RoleTeacher
}
