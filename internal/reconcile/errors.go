package reconcile

import (
	"errors"
	"fmt"
)

// OpErrorCode categorizes errors the reconciler raises locally, before
// any network call is attempted.
type OpErrorCode string

const (
	// CodeValidation indicates a required field was empty.
	CodeValidation OpErrorCode = "VALIDATION"

	// CodeNotFound indicates no cached entity matched the given name.
	CodeNotFound OpErrorCode = "NOT_FOUND"

	// CodeForbidden indicates an admin-gated action was attempted by a
	// non-admin session.
	CodeForbidden OpErrorCode = "FORBIDDEN"
)

// OpError is a local reconciler error. Gateway errors pass through the
// reconciler untouched; OpErrors are the ones it raises itself, always
// without a network round trip.
type OpError struct {
	Code    OpErrorCode
	Message string
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidation reports whether err is an empty-required-field error.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsNotFound reports whether err is a name-lookup miss.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsForbidden reports whether err is the local admin gate.
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

func hasCode(err error, code OpErrorCode) bool {
	var oe *OpError
	return errors.As(err, &oe) && oe.Code == code
}

func newValidationError(field string) *OpError {
	return &OpError{Code: CodeValidation, Message: field + " must not be empty"}
}

func newNotFoundError(name string) *OpError {
	return &OpError{Code: CodeNotFound, Message: fmt.Sprintf("no entry named %q", name)}
}

func newForbiddenError(action string) *OpError {
	return &OpError{Code: CodeForbidden, Message: action + " requires an admin session"}
}
