package repository

import "errors"

// Sentinel kinds for race store errors.
var (
	ErrNotFound   = errors.New("race not found")
	ErrStoreFault = errors.New("race store fault")
)
