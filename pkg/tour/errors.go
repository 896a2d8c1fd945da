package tour

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSteps is returned by Start when a declarative scan finds no
	// annotated elements. The page is left untouched.
	ErrNoSteps = errors.New("no steps found")

	// ErrMissingIntroText is returned when a step has no default text and no
	// text for every active role.
	ErrMissingIntroText = errors.New("no intro text specified for the target")

	// ErrNotStarted is returned by navigation calls made while no tour
	// overlay is active.
	ErrNotStarted = errors.New("tour is not active")
)

// ConfigurationError reports an invalid option value or callback
// registration. The tour's state is unchanged when one is returned.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %q: %s", e.Key, e.Reason)
}

// StepError wraps a failure tied to one step.
type StepError struct {
	// Number is the step's declared number.
	Number int
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Number, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
