package simclient

import "errors"

// Error constants.
var (
	ErrInvalidConfig    = errors.New("invalid simulation config")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNotCompleted     = errors.New("race not completed within max ticks")
)
