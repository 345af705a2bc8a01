package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrDuplicatePayment   = errors.New("duplicate payment idempotency key")
	ErrOverAllocation     = errors.New("quantity exceeds available")
	ErrInvalidState       = errors.New("operation not valid for current state")
	ErrConflict           = errors.New("concurrent update conflict")
	ErrUnknownFilterField = errors.New("unknown filter field")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
