package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrUnknownParam indicates a parameter name that no control maps to.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrEmptyRun indicates a stored run that holds no samples.
	ErrEmptyRun = errors.New("dynamo: run has no samples")
)

// StepError wraps an error with the integration step it occurred at.
type StepError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
