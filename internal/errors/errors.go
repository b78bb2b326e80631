package errors

import (
	"errors"
)

// Classified collaborator failures. Handlers map these onto response
// status codes; the collaborator's own error text stays server-side.
var (
	// ErrMailAuth marks an SMTP AUTH failure, surfaced to clients as a
	// distinct "email service unavailable" message.
	ErrMailAuth = errors.New("mail relay rejected credentials")

	// ErrStoreUnavailable marks a connectivity-class record store failure.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// Check if err is an instance of T for custom error types,
// unwrapping as needed.
func Is[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// ValidationError is a client-caused rejection: a missing field, a
// malformed email address, or a field over its length limit. Its Message
// is safe to return verbatim in a response body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}
