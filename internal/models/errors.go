package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicatePayment indicates a payment with the same ID already exists
	ErrDuplicatePayment = errors.New("duplicate payment")

	// ErrDuplicateReservation indicates a funds reservation with the same reference already exists
	ErrDuplicateReservation = errors.New("duplicate reservation")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)
