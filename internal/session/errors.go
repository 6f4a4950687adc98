package session

import (
	"errors"
	"fmt"
)

// Store sentinels. Stores return (or wrap) these so the lifecycle can map
// backend-specific failures onto its own error types.
var (
	// ErrDuplicateAttempt is returned by CreateSession when the
	// (interview, user) pair already has a session.
	ErrDuplicateAttempt = errors.New("session already exists for interview and user")
	// ErrNotFound is returned by updates that matched no record.
	ErrNotFound = errors.New("record not found")
)

// NotFoundError indicates a referenced interview or session does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError indicates the user already attempted the interview.
type ConflictError struct {
	InterviewID string
	UserID      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user %s already attempted interview %s", e.UserID, e.InterviewID)
}

// ValidationError indicates invalid operation input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// PersistenceError wraps an unexpected store failure.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Cause: err}
}
