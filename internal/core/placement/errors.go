// Package placement contains the pure business rules of item placement:
// validation guards, drop indicators, insertion index and cross-zone reconciliation.
// This is part of the Functional Core - no I/O, only pure functions.
package placement

import "errors"

// Sentinel errors of the placement taxonomy.
var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrKindMismatch     = errors.New("kind not accepted")
	ErrUnknownItem      = errors.New("unknown item")
	ErrUnknownZone      = errors.New("unknown zone")
	ErrIndexOutOfRange  = errors.New("index out of range")
)
