package injection

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidSymbol is returned when a symbol has no signature.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidDependencyRequest is returned when an injector requiring
	// a name is queried with neither type nor name.
	ErrInvalidDependencyRequest = errors.New("invalid dependency request")

	// ErrUnresolvedArgument is matched by every UnresolvedArgumentError.
	ErrUnresolvedArgument = errors.New("unresolved argument")

	// ErrArgumentType is returned when a resolved value can not be
	// passed as the Go parameter type.
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrInvalidSignature is returned when a signature does not describe its callable.
	ErrInvalidSignature = errors.New("invalid signature")
)

// UnresolvedArgumentError is returned when no injector, default value or
// nullability can satisfy a parameter.
type UnresolvedArgumentError struct {
	// Symbol is the name of the called symbol.
	Symbol string

	// Parameter is the offending declaration.
	Parameter Parameter
}

// Error implements the error interface.
func (e *UnresolvedArgumentError) Error() string {
	// Example: could not resolve dependency for argument "hello" (string) of main.greet
	msg := "could not resolve dependency for argument " + strconv.Quote(e.Parameter.Name)
	if e.Parameter.Type != "" {
		msg += " (" + e.Parameter.Type + ")"
	}
	if e.Symbol != "" {
		msg += " of " + e.Symbol
	}
	return msg
}

// Is makes the error match ErrUnresolvedArgument.
func (e *UnresolvedArgumentError) Is(target error) bool {
	return target == ErrUnresolvedArgument
}

// DuplicateArgumentWarning reports a value bag slot occupied by an earlier value.
// It is not fatal: the earlier value is kept.
type DuplicateArgumentWarning struct {
	// Slot is the type slot that was already occupied.
	Slot string

	// Kept is the value remaining in the slot.
	Kept any

	// Dropped is the value which was not stored in the slot.
	Dropped any
}

// Error implements the error interface.
func (w *DuplicateArgumentWarning) Error() string {
	return fmt.Sprintf("argument of type %s already exists", w.Slot)
}
