package services

import "errors"

// Error taxonomy shared by the booking, payment, balance and withdrawal
// services. Handlers match these with errors.Is and map them to HTTP
// statuses; anything else is a storage failure surfaced as-is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrConflict            = errors.New("concurrent update conflict")
)
