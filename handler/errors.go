package handler

import (
	"errors"
	"net/http"
)

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrSSENotInitialized indicates SSE was used on a request that is not a DataStar request
	ErrSSENotInitialized = errors.New("SSE not initialized for this request")
)

// HTTPError is an error with an HTTP status and a user-facing message.
type HTTPError struct {
	Code    int
	Message string
	err     error
}

// NewHTTPError creates an HTTPError. An empty message falls back to the
// status text.
func NewHTTPError(code int, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message}
}

func (e HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the cause attached with Wrap.
func (e HTTPError) Unwrap() error {
	return e.err
}

// Wrap returns a copy of e carrying cause.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.err = cause
	return e
}

var (
	ErrBadRequest       = NewHTTPError(http.StatusBadRequest, "")
	ErrNotFound         = NewHTTPError(http.StatusNotFound, "")
	ErrMethodNotAllowed = NewHTTPError(http.StatusMethodNotAllowed, "")
	ErrInternal         = NewHTTPError(http.StatusInternalServerError, "")
)
