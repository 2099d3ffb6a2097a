package store

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when an operation that needs a user
// identity is called without one.
var ErrNotAuthenticated = errors.New("not authenticated")

// StorageError wraps an underlying database failure. Validation has
// already passed by the time one of these is raised, so the caller can
// retry the same input.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
