package scheduler

import (
	"errors"
	"fmt"
)

// ErrAlreadyRunning is returned by Start when the scheduler is running.
var ErrAlreadyRunning = errors.New("scheduler: already running")

// ErrNotRunning is returned by operations that require a running scheduler.
var ErrNotRunning = errors.New("scheduler: not running")

// ErrConfiguration wraps an invalid Config field.
var ErrConfiguration = errors.New("scheduler: invalid configuration")

func errConfiguration(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}
