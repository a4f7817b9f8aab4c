package formvalidator

import "errors"

var (
	// ErrInvalidRules is returned when a rule table or rules file is malformed.
	ErrInvalidRules = errors.New("invalid field rules")

	// ErrUnknownField is returned for events on a field the form does not contain.
	ErrUnknownField = errors.New("unknown form field")

	// ErrSubmissionCanceled is returned when a pending submission is canceled
	// before its delay elapses.
	ErrSubmissionCanceled = errors.New("submission canceled")
)
