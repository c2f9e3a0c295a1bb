package admission

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("application not found")

	// ErrConcurrencyConflict is returned when a command carries a stale
	// expected version; the caller must reload and retry with fresh state.
	ErrConcurrencyConflict = errors.New("application was modified concurrently")
)

// IllegalTransitionError reports an action that is not legal from the
// Application's current status.
type IllegalTransitionError struct {
	Status Status
	Action Action
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("action %q is not available in the current state (%s)", e.Action, e.Status)
}

// ImmutableStateError reports an attempt to mutate locked state; callers
// hitting this have a bug, not bad user input.
type ImmutableStateError struct {
	Reason string
}

func (e *ImmutableStateError) Error() string {
	return e.Reason
}

func IsIllegalTransition(err error) bool {
	_, ok := errors.Cause(err).(*IllegalTransitionError)
	return ok
}

func IsImmutableState(err error) bool {
	_, ok := errors.Cause(err).(*ImmutableStateError)
	return ok
}

func IsConcurrencyConflict(err error) bool {
	return errors.Cause(err) == ErrConcurrencyConflict
}
