package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError reports a 401 or 403 from the server. By the time the
// caller sees it the local session has already been cleared; the
// caller's remaining job is to send the user back to login.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization rejected (status %d)", e.Status)
}

// ServerError reports any other non-2xx response, carrying the status
// and the body text the server returned.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
}

// NetworkError reports a transport-level failure: DNS, connection
// refused, or the per-call deadline. Timeout distinguishes the bounded
// wait from other transport faults.
type NetworkError struct {
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuthFailure reports whether err is an authorization rejection.
// Uses errors.As to handle wrapped errors.
func IsAuthFailure(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTimeout reports whether err is the bounded-wait expiry.
func IsTimeout(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Timeout
}

// IsConflict reports whether err is a 409 from the server, which the
// register endpoint uses for an already-taken username or email.
func IsConflict(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusConflict
}
