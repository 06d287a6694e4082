package domain

import "errors"

var (
	// ErrInvalidConfiguration is wrapped by every validation failure.
	// The wrapping message names the invariant that failed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrScheduleNotFound is returned when a named tax schedule is unknown
	ErrScheduleNotFound = errors.New("tax schedule not found")
)
