package domain

import "errors"

// Domain errors
var (
	ErrEmptyRoster        = errors.New("player list cannot be empty")
	ErrPositionOutOfRange = errors.New("player position out of range")
)
