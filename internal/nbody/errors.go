package nbody

import (
	"errors"
	"fmt"
)

// Domain errors for engine construction and stepping.
var (
	// ErrInvalidOptions indicates a body count, bound or worker setting that cannot be used.
	ErrInvalidOptions = errors.New("nbody: invalid options")

	// ErrStateMismatch indicates explicit state arrays of different lengths.
	ErrStateMismatch = errors.New("nbody: position and velocity lengths differ")

	// ErrNonFinite indicates a NaN or Inf position or velocity.
	ErrNonFinite = errors.New("nbody: non-finite particle state")

	// ErrClosed indicates Step was called after Close.
	ErrClosed = errors.New("nbody: engine closed")
)

// StepError wraps an error with the step and particle it was found at.
type StepError struct {
	Step     int
	Particle int
	Wrapped  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (particle %d): %v", e.Step, e.Particle, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
