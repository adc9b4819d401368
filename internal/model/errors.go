package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Stat errors
	ErrStatNotFound = errors.New("stat not found")

	// Bundle validation errors; a batch failing any of these is rejected
	// wholesale before anything is persisted
	ErrInvalidNamespace = errors.New("namespace must not be empty")
	ErrInvalidStatID    = errors.New("stat id contains reserved delimiter")
	ErrUnknownStatType  = errors.New("unknown stat type")
	ErrInvalidValue     = errors.New("value does not match stat type")

	// Per-tuple merge errors
	ErrKindConflict = errors.New("stat kind conflicts with stored record")
	ErrTypeMismatch = errors.New("numeric family conflicts with stored record")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TupleFailure records one stat merge that failed after batch validation
// passed. Global is set for failures in a bundle's global section, where
// no player id applies.
type TupleFailure struct {
	PlayerID uuid.UUID
	Global   bool
	StatID   string
	Err      error
}

// PartialFailureError aggregates per-tuple merge failures from one upload.
// Tuples not listed here were merged and stay persisted.
type PartialFailureError struct {
	Failures []TupleFailure
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%d stat merge(s) failed", len(e.Failures))
}
