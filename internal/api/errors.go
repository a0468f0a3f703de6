package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers connection refused, DNS failure and timeouts.
	ErrUnavailable = errors.New("backend server is not available")
	// ErrUnauthorized is a 401; the session has already been cleared.
	ErrUnauthorized = errors.New("session expired, please sign in again")
	// ErrForbidden is a 403; the session stays valid.
	ErrForbidden = errors.New("you do not have permission to do that")
	// ErrServer is any 5xx.
	ErrServer = errors.New("server error, please try again later")
	// ErrNotFound is a 404 on a specific record.
	ErrNotFound = errors.New("record not found")
)

// statusError keeps the raw HTTP status behind one of the sentinels above so
// callers can both errors.Is-match the class and log the exact code.
type statusError struct {
	status int
	kind   error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v (status %d)", e.kind, e.status)
}

func (e *statusError) Unwrap() error { return e.kind }

func classifyStatus(status int) error {
	switch {
	case status == 401:
		return &statusError{status: status, kind: ErrUnauthorized}
	case status == 403:
		return &statusError{status: status, kind: ErrForbidden}
	case status == 404:
		return &statusError{status: status, kind: ErrNotFound}
	case status >= 500:
		return &statusError{status: status, kind: ErrServer}
	default:
		return &statusError{status: status, kind: errors.New("request failed")}
	}
}

// Message maps any client error to the short user-facing string the UI shows.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return ErrUnavailable.Error()
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized.Error()
	case errors.Is(err, ErrForbidden):
		return ErrForbidden.Error()
	case errors.Is(err, ErrServer):
		return ErrServer.Error()
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	default:
		return err.Error()
	}
}
