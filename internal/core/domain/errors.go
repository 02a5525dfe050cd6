package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOperatorNotFound = errors.New("operator not found")
	ErrOperatorExists   = errors.New("operator already exists")
	ErrStorage          = errors.New("storage failure")

	// ErrAmbiguousMatch marks an alternate-key lookup that matched more than
	// one operator. It is reported as a diagnostic, never returned.
	ErrAmbiguousMatch = errors.New("ambiguous alternate-key match")
)

// StorageError wraps an underlying persistence failure. errors.Is(err,
// ErrStorage) matches it.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// InvalidArgument builds an error matching ErrInvalidArgument that names the
// offending field.
func InvalidArgument(field string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
}
