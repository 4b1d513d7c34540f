package infill

import (
	"context"
	"errors"
	"strconv"
)

// backendError signals a non-2xx response from the completion backend.
type backendError struct {
	status int
	body   string
}

func (e backendError) Error() string {
	return "backend http error: status " + strconv.Itoa(e.status) + ": " + e.body
}

// IsBackendError reports whether err indicates a backend HTTP failure.
func IsBackendError(err error) bool {
	var be backendError
	return errors.As(err, &be)
}

// malformedResponseError signals a response body that is not a well-formed
// object with a string content field.
type malformedResponseError struct{ msg string }

func (e malformedResponseError) Error() string { return "malformed backend response: " + e.msg }

// IsMalformedResponse reports whether err indicates an unparseable backend body.
func IsMalformedResponse(err error) bool {
	var me malformedResponseError
	return errors.As(err, &me)
}

// cancelledError signals that the caller's token fired before or during the
// call. It is distinguishable from backend faults so it can be excluded from
// breaker failure accounting.
type cancelledError struct{ cause error }

func (e cancelledError) Error() string { return "call cancelled: " + e.cause.Error() }
func (e cancelledError) Unwrap() error { return e.cause }

// IsCancelled reports whether err indicates cooperative cancellation.
func IsCancelled(err error) bool {
	var ce cancelledError
	if errors.As(err, &ce) {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
