// Package errors defines the error kinds shared by every domain. Domain
// packages wrap one of the kinds below into their own sentinels, and the HTTP
// layer picks a status code from the kind alone.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Each one maps to exactly one HTTP status.
var (
	ErrNotFound     = errors.New("not found")     // 404
	ErrConflict     = errors.New("conflict")      // 409: duplicate user, integrity mismatch
	ErrInvalidInput = errors.New("invalid input") // 422
	ErrUnauthorized = errors.New("unauthorized")  // 401: bad token, failed challenge
	ErrForbidden    = errors.New("forbidden")     // 403: not owner or recipient
	ErrUnavailable  = errors.New("unavailable")   // 503: certificate authority not active
)

// New is errors.New.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping err in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is, As and Join mirror the standard library so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// codedError carries a stable machine readable code and a message that is
// safe to return to clients.
type codedError struct {
	err     error
	code    string
	message string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

// WithCode tags err with a client facing code and message.
func WithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code, message: message}
}

// CodeOf returns the outermost code and message attached with WithCode.
func CodeOf(err error) (code, message string, ok bool) {
	var ce *codedError
	if !errors.As(err, &ce) {
		return "", "", false
	}
	return ce.code, ce.message, true
}
