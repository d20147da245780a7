package hemesh

import (
	"errors"
	"fmt"
)

// Sentinel errors. Usage errors are raised by panicking with a value that
// wraps one of these so callers that recover can still match with errors.Is.
var (
	// ErrNotOwned is raised when an index does not address an element of
	// the mesh it was passed to.
	ErrNotOwned = errors.New("element not owned by this mesh")

	// ErrUnused is raised when an operator is handed an element that has
	// already been removed.
	ErrUnused = errors.New("element is unused")

	// ErrInvalidArgument is raised for nil collaborators and other
	// malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotImplemented is returned by operators that are declared but
	// have no implementation.
	ErrNotImplemented = errors.New("not implemented")
)

func usageError(kind string, index int, err error) error {
	return fmt.Errorf("hemesh: %s %d: %w", kind, index, err)
}
