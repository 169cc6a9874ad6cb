package services

import "errors"

// Business rejections. None of these leave any mutation behind; transport
// layers match them with errors.Is and map them to response codes.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrBettingClosed       = errors.New("betting closed")
	ErrAccountBlocked      = errors.New("account blocked")
	ErrAccountInactive     = errors.New("account inactive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrInvalidState        = errors.New("invalid state")

	// ErrNoRateConfigured means an operator forgot the payout rate for a
	// bet type: it blocks a whole market and must be surfaced loudly.
	ErrNoRateConfigured = errors.New("no payout rate configured")
)
