package jobs

import "errors"

// Configuration and lifecycle errors returned by Pool.
var (
	// ErrInvalidWorkers indicates a pool was requested with no workers.
	ErrInvalidWorkers = errors.New("jobs: worker count must be positive")

	// ErrNilTask indicates Configure was called without a task.
	ErrNilTask = errors.New("jobs: task is nil")

	// ErrInvalidShape indicates a negative range, a non-positive chunk size
	// or more than MaxJobs jobs.
	ErrInvalidShape = errors.New("jobs: invalid work shape")

	// ErrNoTask indicates Dispatch was called before Configure.
	ErrNoTask = errors.New("jobs: no task configured")

	// ErrClosed indicates the pool has been shut down.
	ErrClosed = errors.New("jobs: pool closed")
)
