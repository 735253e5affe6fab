package priority

import (
	"errors"
	"fmt"
)

// Sentinel errors for the priority registry.
var (
	// ErrNotRegistered is returned when unregistering a handle that was already
	// unregistered or whose unregistration is already queued.
	ErrNotRegistered = errors.New("handle is not registered")

	// ErrNilHandle is returned when a nil handle is passed to the registry.
	ErrNilHandle = errors.New("handle cannot be nil")

	// ErrForeignHandle is returned when a handle is passed to a registry that
	// did not create it.
	ErrForeignHandle = errors.New("handle belongs to another registry")

	// ErrCallbackPanic matches any CallbackPanicError.
	ErrCallbackPanic = errors.New("callback panicked")
)

// CallbackPanicError describes a subscriber that panicked while being notified.
type CallbackPanicError struct {
	// Handle is the name of the handle whose sink was being delivered.
	Handle string

	// Kind is the sink that was being delivered.
	Kind Kind

	// SubscriptionID identifies the subscriber that panicked.
	SubscriptionID SubscriptionID

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at recovery.
	Stack string
}

// Error implements the error interface.
func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("%s callback %s on handle %s panicked: %v", e.Kind, e.SubscriptionID, e.Handle, e.Value)
}

// Is allows errors.Is to match CallbackPanicError with ErrCallbackPanic.
func (e *CallbackPanicError) Is(target error) bool {
	return target == ErrCallbackPanic
}
