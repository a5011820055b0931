package progress

import "errors"

var (
	// ErrNotInitialized is returned by operations invoked before Start.
	ErrNotInitialized = errors.New("progress: tracker not started")
	// ErrTaskNotFound is returned when the task id has no live progress record.
	ErrTaskNotFound = errors.New("progress: task not found")
	// ErrInvalidProgressUpdate is returned when a referenced step id does
	// not exist on the task.
	ErrInvalidProgressUpdate = errors.New("progress: invalid progress update")
)
