package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service layer wraps exactly one of
// these, and the HTTP layer maps them to status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type Error struct {
	kind error
	msg  string
}

func NewError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func Validationf(format string, args ...any) error {
	return NewError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrMissingFields     = NewError(ErrValidation, "all fields are required")
	ErrInvalidQuantity   = NewError(ErrValidation, "quantity must be between 1 and 1000")
	ErrInvalidPrice      = NewError(ErrValidation, "price must be greater than zero")
	ErrMissingAddress    = NewError(ErrValidation, "address is missing")
	ErrEmptyCart         = NewError(ErrValidation, "cart is empty")
	ErrItemUnavailable   = NewError(ErrValidation, "menu item is not available")
	ErrInvalidStatus     = NewError(ErrValidation, "unknown status")
	ErrIllegalTransition = NewError(ErrValidation, "status transition not allowed")

	ErrMenuItemNotFound = NewError(ErrNotFound, "menu item not found")
	ErrCategoryNotFound = NewError(ErrNotFound, "category not found")
	ErrCartNotFound     = NewError(ErrNotFound, "cart not found")
	ErrOrderNotFound    = NewError(ErrNotFound, "order not found")
	ErrBookingNotFound  = NewError(ErrNotFound, "booking not found")
	ErrUserNotFound     = NewError(ErrNotFound, "user not found")

	ErrSlotTaken        = NewError(ErrConflict, "this time slot is already booked")
	ErrCategoryExists   = NewError(ErrConflict, "category already exists")
	ErrConcurrentUpdate = NewError(ErrConflict, "resource was modified concurrently, retry")
	ErrUserExists       = NewError(ErrConflict, "user already exists")

	ErrInvalidCredentials = NewError(ErrUnauthorized, "invalid credentials")
)

// ErrCacheMiss is returned by catalog caches for absent or unreadable entries.
var ErrCacheMiss = errors.New("cache miss")
