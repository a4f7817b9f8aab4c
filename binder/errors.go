package binder

import "errors"

// Common binding errors
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrInvalidPath          = errors.New("invalid path parameter")
	ErrInvalidSignals       = errors.New("invalid datastar signals")

	// ErrBinderNotApplicable is returned by a binder that does not handle the
	// request's encoding. handler.Wrap skips it and tries the next one.
	ErrBinderNotApplicable = errors.New("binder not applicable to request")
)
