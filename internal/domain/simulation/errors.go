package simulation

import "errors"

// Sentinel kinds for simulation errors.
var (
	ErrInvalidInput = errors.New("invalid race input")
)
