package queue

import "errors"

var (
	// ErrDuplicate is returned by Enqueue when a task with the same
	// fingerprint is already Pending or Running.
	ErrDuplicate = errors.New("queue: duplicate fingerprint")
	// ErrQueueFull is returned by Enqueue when the live-task bound
	// (max_queue_size) would be exceeded.
	ErrQueueFull = errors.New("queue: full")
)
