package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrorKind categorizes every failure an operation can surface. Callers map
// these onto their transport; nothing else leaks out of this package.
type ErrorKind int

const (
	// ErrorKindNotFound means a referenced id did not resolve.
	ErrorKindNotFound ErrorKind = iota
	// ErrorKindUnauthenticated means no valid actor session.
	ErrorKindUnauthenticated
	// ErrorKindUnauthorized means the actor lacks permission or ownership.
	ErrorKindUnauthorized
	// ErrorKindValidation means a field constraint was violated.
	ErrorKindValidation
	// ErrorKindStorage means the store failed; details are logged, not surfaced.
	ErrorKindStorage
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf extracts the category of an operation failure. Unrecognized errors
// count as storage failures since those are the only raw class in flight.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindStorage
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func unauthenticated(message string) *Error {
	return &Error{Kind: ErrorKindUnauthenticated, Message: message}
}

func unauthorized(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func validation(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

// storageFailure logs the backend error with detail and hands the caller a
// generic message; store internals never reach the outside.
func storageFailure(err error, context string) *Error {
	log.Error().Err(err).Msgf("An error occurred when %s...", context)
	return &Error{Kind: ErrorKindStorage, Message: "internal server error"}
}
