package app

import (
	"errors"
	"fmt"
)

// Sentinel errors of the application layer.
var (
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrNoPendingSave      = errors.New("no pending save")
	ErrNoPendingDelete    = errors.New("no pending delete")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrNoSession          = errors.New("no active drag")
)

// PersistenceError reports a failed remote create, delete or upload.
// It matches ErrPersistenceFailure with errors.Is.
type PersistenceError struct {
	Op     string // "create", "delete" or "upload"
	ItemID string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s saved section for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistenceFailure }
