package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrNoGamesOnDate = errors.New("no games scheduled on date")
	ErrInvalidID     = errors.New("invalid ID format")
)
