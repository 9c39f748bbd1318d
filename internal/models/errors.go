package models

import "errors"

// Domain validation errors. Every one of these is surfaced synchronously to
// the caller with no side effect: a rejected operation leaves accounts,
// sessions and gardens exactly as they were before the call.
var (
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInsufficientFunds  = errors.New("insufficient wallet balance")
	ErrInsufficientPoints = errors.New("insufficient green points")
	ErrInvalidTransition  = errors.New("invalid session state transition")
	ErrInvalidSchedule    = errors.New("invalid session schedule")
	ErrOutOfBounds        = errors.New("cell coordinates out of bounds")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrEmptyCell          = errors.New("no plant in this cell")
)

// Lookup failures.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrGardenNotFound  = errors.New("garden not found")
	ErrPlantNotFound   = errors.New("plant not found in catalog")
)
