package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrComplete indicates the horizon has been reached; no further periods can run.
	ErrComplete = errors.New("sim: horizon reached")

	// ErrLocked indicates gains or mode were edited after the first period.
	ErrLocked = errors.New("sim: parameter locked after first period")

	// ErrRunning indicates an edit that is only allowed while stopped.
	ErrRunning = errors.New("sim: not allowed while running")

	// ErrInvalidConfig indicates a configuration that cannot drive a session.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

// StepError wraps a failure with the period it happened in.
type StepError struct {
	Period  int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("period %d: %v", e.Period, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
