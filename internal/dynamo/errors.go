package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world and simulation operations.
var (
	// ErrUnknownEngine indicates no physics backend is registered under a name.
	ErrUnknownEngine = errors.New("dynamo: unknown physics engine")

	// ErrInvalidDef indicates a body or fixture definition the engine cannot build.
	ErrInvalidDef = errors.New("dynamo: invalid body or fixture definition")

	// ErrInvalidStep indicates a non-positive time step or iteration count.
	ErrInvalidStep = errors.New("dynamo: invalid step configuration")

	// ErrUnstable indicates a body left the representable range (NaN or Inf).
	ErrUnstable = errors.New("dynamo: simulation unstable (body state diverged)")
)

// StepError wraps an error with the step at which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Body    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) body %d: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
