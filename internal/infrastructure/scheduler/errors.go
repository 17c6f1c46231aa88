package scheduler

import "errors"

var (
	// ErrLockHeld is returned when another instance holds the job lock
	ErrLockHeld = errors.New("job lock is held by another instance")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
