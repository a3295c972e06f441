package statestore

import (
	"fmt"
)

// StatusError is returned when the state store answered with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: state store responded with status %d", e.Operation, e.StatusCode)
}

// UnreachableError is returned when the request to the state store failed before a
// status was received.
type UnreachableError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: state store unreachable: %v", e.Operation, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}
