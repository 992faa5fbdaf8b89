package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel wrapped by every TransitionError so
// callers can match guard failures with errors.Is.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidationError reports a value that failed its construction invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a construction-time validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransitionError reports a rejected aggregate state transition. The entity
// the transition was attempted on is left unchanged.
type TransitionError struct {
	Entity string
	Action string
	Status string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", e.Entity, e.Action, e.Status)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func transitionErr(entity, action, status string) error {
	return &TransitionError{Entity: entity, Action: action, Status: status}
}
