package formvalidator

import (
	"maps"
	"slices"
	"sync"
)

// Presenter renders per-field validation state. The validator always calls
// MarkInvalid or MarkValid together with SetError, so a field never shows a
// marker without matching error text or the other way round.
type Presenter interface {
	MarkInvalid(field string)
	MarkValid(field string)
	SetError(field, text string)
}

// StateSource is implemented by presenters that can report which marker a
// field currently carries. Forms read their initial field states from it, so
// the state lives with the presentation and nowhere else.
type StateSource interface {
	FieldState(field string) FieldState
}

// NoticeKind classifies user notifications.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a message shown to the user outside of any single field.
type Notice struct {
	Kind NoticeKind
	Text string
}

// SubmitUI is the part of the page a submission drives besides the fields:
// the submit control, notifications and the field inputs themselves.
type SubmitUI interface {
	SetLoading(loading bool)
	Notify(kind NoticeKind, text string)
	ClearValue(field string)
}

// Flusher is implemented by presenters that buffer updates. Submitter flushes
// at every point the user must see before the next step starts.
type Flusher interface {
	Flush() error
}

// Recorder is an in-memory Presenter and SubmitUI. It backs server-rendered
// pages and tests. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	invalid map[string]bool
	touched map[string]bool
	errors  map[string]string
	cleared map[string]bool
	loading bool
	notices []Notice
}

// NewRecorder returns a Recorder with every field untouched.
func NewRecorder() *Recorder {
	return &Recorder{
		invalid: make(map[string]bool),
		touched: make(map[string]bool),
		errors:  make(map[string]string),
		cleared: make(map[string]bool),
	}
}

func (r *Recorder) MarkInvalid(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalid[field] = true
	r.touched[field] = true
}

func (r *Recorder) MarkValid(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.invalid, field)
	r.touched[field] = true
}

func (r *Recorder) SetError(field, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if text == "" {
		delete(r.errors, field)
		return
	}
	r.errors[field] = text
}

func (r *Recorder) FieldState(field string) FieldState {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.invalid[field]:
		return StateInvalid
	case r.touched[field]:
		return StateValid
	default:
		return StateUntouched
	}
}

func (r *Recorder) SetLoading(loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = loading
}

func (r *Recorder) Notify(kind NoticeKind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Kind: kind, Text: text})
}

// ClearValue records that the field input was emptied and forgets the field
// was ever touched.
func (r *Recorder) ClearValue(field string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared[field] = true
	delete(r.touched, field)
}

// Snapshot is a point-in-time copy of everything a Recorder has rendered.
type Snapshot struct {
	Invalid []string
	Errors  map[string]string
	Cleared []string
	Loading bool
	Notices []Notice
}

// Snapshot returns the current presentation state. Field lists are sorted.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		Invalid: slices.Sorted(maps.Keys(r.invalid)),
		Errors:  maps.Clone(r.errors),
		Cleared: slices.Sorted(maps.Keys(r.cleared)),
		Loading: r.loading,
		Notices: slices.Clone(r.notices),
	}
}

// Error returns the error text currently shown for field.
func (r *Recorder) Error(field string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors[field]
}

// Loading reports whether the submit control is in its loading state.
func (r *Recorder) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}
