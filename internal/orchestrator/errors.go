package orchestrator

import (
	"errors"
	"fmt"
)

// ErrStaleResponse is returned when a service result arrives after the
// attempt that requested it was abandoned or replaced. The result is dropped.
var ErrStaleResponse = errors.New("response discarded: assessment attempt changed")

// ValidationError is a recoverable input problem. The machine stays in its current stage.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// GenerationError reports a failed question or report generation. Message
// is safe to show to the user; the machine has already returned to Idle.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// TransitionError is returned when an action is not allowed in the current state
type TransitionError struct {
	State  State
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.State)
}
