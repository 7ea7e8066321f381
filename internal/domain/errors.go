package domain

import (
	"errors"
	"time"
)

// Error kinds. Services wrap them in *Error so the delivery layer can pick a
// status code with errors.Is while still showing a specific message.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
)

type Error struct {
	Kind    error
	Message string
	// RetryAfter is set on rate-limit errors when the wait is known.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func RateLimited(msg string) error { return &Error{Kind: ErrRateLimited, Message: msg} }

func RateLimitedFor(msg string, retryAfter time.Duration) error {
	return &Error{Kind: ErrRateLimited, Message: msg, RetryAfter: retryAfter}
}

func Unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }
