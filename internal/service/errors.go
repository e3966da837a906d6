package service

import "errors"

var (
	// ErrContractViolation marks a request the adapter refuses outright,
	// such as a flame percentage outside 0..100.
	ErrContractViolation = errors.New("contract violation")
	// ErrNoSnapshot is returned while no poll has ever succeeded.
	ErrNoSnapshot = errors.New("no device snapshot yet")

	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)
