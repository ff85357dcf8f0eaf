package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownModel is returned when an event targets a model id that is not registered.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnknownKind is returned when an event name does not belong to the target's domain.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrModelFrozen is returned when an event is injected after the model's run has ended.
	ErrModelFrozen = errors.New("model frozen")
	// ErrNotInitialised is returned when an event is injected before Initialise.
	ErrNotInitialised = errors.New("model not initialised")
	// ErrNotApplicable is returned when an event has no effect defined in the
	// state its target will be in.
	ErrNotApplicable = errors.New("event not applicable")
)

// OutOfOrderEventError reports an injection whose occurrence precedes the
// target model's current time. The model state is left untouched.
type OutOfOrderEventError struct {
	ModelID string
	Kind    string
	At      Instant
	Now     Instant
}

func (e *OutOfOrderEventError) Error() string {
	return fmt.Sprintf("model %s: event %s at %s precedes current time %s", e.ModelID, e.Kind, e.At, e.Now)
}

// ContractViolation is the panic value raised when a transition is invoked
// outside of its pre-condition. Drivers recover it and abort the run.
type ContractViolation struct {
	ModelID   string
	At        Instant
	Condition string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in model %s at %s: %s", e.ModelID, e.At, e.Condition)
}

func violate(modelID string, at Instant, format string, args ...any) {
	panic(&ContractViolation{ModelID: modelID, At: at, Condition: fmt.Sprintf(format, args...)})
}

// recoverViolation converts a *ContractViolation panic into an error stored in
// *err. Any other panic is re-raised.
func recoverViolation(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if cv, ok := r.(*ContractViolation); ok {
		*err = cv
		return
	}
	panic(r)
}

// Guard runs fn and returns a *ContractViolation raised by it as an error.
func Guard(fn func()) (err error) {
	defer recoverViolation(&err)
	fn()
	return nil
}
