package apperr

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for a wrong admin password or a missing/expired session.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError marks input that was rejected before any side effect happened.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFoundError is returned when a referenced id does not exist in the store.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// TransportError wraps a network or HTTP failure talking to the store or a webhook.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func Transport(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
