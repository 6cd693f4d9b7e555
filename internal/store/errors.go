package store

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound signals a lookup for an unregistered device.
var ErrDeviceNotFound = errors.New("device not found")

// StorageError wraps failures of the underlying storage (unreadable,
// corrupt, or unwritable). Tools report it as text like any other tool
// failure; it never aborts a run.
type StorageError struct {
	Op         string
	Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Underlying
}
