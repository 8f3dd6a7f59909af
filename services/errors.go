package services

import (
	"errors"
	"fmt"
)

// ValidationError reports a request missing required data.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError reports an operation the record's current state forbids.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UnauthorizedError reports missing or wrong credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ForbiddenError reports an authenticated trader acting on someone else's item.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// PersistenceError wraps a storage failure. Message is safe to show clients.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// persistence keeps typed service errors and wraps anything else.
func persistence(message string, err error) error {
	var (
		ve *ValidationError
		ne *NotFoundError
		ce *ConflictError
		ue *UnauthorizedError
		fe *ForbiddenError
		pe *PersistenceError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ne), errors.As(err, &ce),
		errors.As(err, &ue), errors.As(err, &fe), errors.As(err, &pe):
		return err
	}
	return &PersistenceError{Message: message, Err: err}
}
