package queue

import "errors"

var (
	// ErrInvalidConfig is returned when queue settings cannot be repaired by defaults.
	ErrInvalidConfig = errors.New("invalid queue config")
	// ErrDispatcherRequired is returned when a queue is created without a dispatcher.
	ErrDispatcherRequired = errors.New("dispatcher is required")
	// ErrQueueFull is returned by Enqueue when the pending buffer is at capacity.
	ErrQueueFull = errors.New("queue is full")
)
