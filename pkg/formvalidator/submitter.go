package formvalidator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/landing/pkg/logger"
)

// DefaultSubmitDelay is how long a simulated submission stays in flight.
const DefaultSubmitDelay = 1200 * time.Millisecond

// User-facing submission notices.
const (
	MessageSent      = "Message sent successfully! (Demo)"
	MessageFixErrors = "Please fix the errors in the form"
)

// Outcome is the result of a Submit call.
type Outcome string

const (
	// OutcomeRejected means at least one field was invalid; nothing was sent.
	OutcomeRejected Outcome = "rejected"
	// OutcomeSent means the delay elapsed and the form was reset.
	OutcomeSent Outcome = "sent"
	// OutcomeSuperseded means a newer submission for the same form took over.
	OutcomeSuperseded Outcome = "superseded"
	// OutcomeCanceled means the submission was canceled or its context ended.
	OutcomeCanceled Outcome = "canceled"
)

// CompletionFunc runs after a submission is sent, with the values as they were
// before the form was reset.
type CompletionFunc func(ctx context.Context, key string, values map[string]string)

var errSuperseded = errors.New("superseded by a newer submission")

// task is one pending submission. done is closed exactly once, with reason
// set before the close.
type task struct {
	once   sync.Once
	done   chan struct{}
	reason error
}

func (t *task) cancel(reason error) {
	t.once.Do(func() {
		t.reason = reason
		close(t.done)
	})
}

// Submitter runs simulated submissions: it gates on validation, holds the
// submit control in its loading state for a fixed delay, then resets the form.
// At most one submission per form key is pending; starting another cancels
// the previous one.
type Submitter struct {
	delay   time.Duration
	logger  *slog.Logger
	onSent  []CompletionFunc
	mu      sync.Mutex
	pending map[string]*task
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

// WithDelay sets the simulated in-flight time. Panics if d <= 0.
func WithDelay(d time.Duration) SubmitterOption {
	if d <= 0 {
		panic("WithDelay: duration must be > 0")
	}
	return func(s *Submitter) { s.delay = d }
}

// WithSubmitterLogger sets the submitter logger.
func WithSubmitterLogger(l *slog.Logger) SubmitterOption {
	return func(s *Submitter) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCompletion registers a callback run after each sent submission.
func WithCompletion(fn CompletionFunc) SubmitterOption {
	return func(s *Submitter) {
		if fn != nil {
			s.onSent = append(s.onSent, fn)
		}
	}
}

// NewSubmitter creates a Submitter with DefaultSubmitDelay unless overridden.
func NewSubmitter(opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		delay:   DefaultSubmitDelay,
		logger:  logger.Discard(),
		pending: make(map[string]*task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates every field of form. If any is invalid the user is told to
// fix the errors and OutcomeRejected is returned without entering the loading
// state. A rejected attempt also supersedes any pending submission for the
// same key and clears its loading state. Otherwise the submit control goes into loading, and after the delay
// loading is cleared, the success notice shown, every value emptied and every
// field returned to Untouched.
//
// Submit blocks for the delay. It returns early with OutcomeSuperseded when
// another Submit for the same key starts, and with OutcomeCanceled when Cancel
// is called for key or ctx ends. A superseded call leaves the UI to the newer
// one.
func (s *Submitter) Submit(ctx context.Context, key string, form *Form, ui SubmitUI) (Outcome, error) {
	log := s.logger.With(logger.Component("submitter"), logger.FormID(key))

	ok, err := form.Validate(ctx)
	if err != nil {
		return OutcomeRejected, err
	}
	if !ok {
		if s.supersede(key) {
			ui.SetLoading(false)
		}
		ui.Notify(NoticeError, MessageFixErrors)
		log.DebugContext(ctx, "submission rejected",
			logger.Outcome(string(OutcomeRejected)),
			logger.Error(form.Errors()),
		)
		return OutcomeRejected, flush(form.p, ui)
	}

	ui.SetLoading(true)
	if err := flush(form.p, ui); err != nil {
		return OutcomeCanceled, err
	}

	t := s.start(key)
	defer s.finish(key, t)

	started := time.Now()
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-t.done:
		if errors.Is(t.reason, errSuperseded) {
			log.DebugContext(ctx, "submission superseded", logger.Outcome(string(OutcomeSuperseded)))
			return OutcomeSuperseded, nil
		}
		ui.SetLoading(false)
		log.DebugContext(ctx, "submission canceled", logger.Outcome(string(OutcomeCanceled)))
		return OutcomeCanceled, errors.Join(t.reason, flush(form.p, ui))
	case <-ctx.Done():
		log.DebugContext(ctx, "submission abandoned", logger.Outcome(string(OutcomeCanceled)), logger.Error(ctx.Err()))
		return OutcomeCanceled, errors.Join(ErrSubmissionCanceled, ctx.Err())
	}

	values := form.Values()

	ui.SetLoading(false)
	ui.Notify(NoticeSuccess, MessageSent)
	if err := form.Reset(ctx); err != nil {
		return OutcomeSent, err
	}
	for _, name := range form.Fields() {
		ui.ClearValue(name)
	}

	for _, fn := range s.onSent {
		fn(ctx, key, values)
	}

	log.InfoContext(ctx, "submission sent",
		logger.Outcome(string(OutcomeSent)),
		logger.Duration(time.Since(started)),
	)
	return OutcomeSent, flush(form.p, ui)
}

// Cancel cancels the pending submission for key and reports whether there was one.
func (s *Submitter) Cancel(key string) bool {
	s.mu.Lock()
	t, ok := s.pending[key]
	s.mu.Unlock()
	if ok {
		t.cancel(ErrSubmissionCanceled)
	}
	return ok
}

// Pending reports whether a submission for key is in flight.
func (s *Submitter) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *Submitter) start(key string) *task {
	t := &task{done: make(chan struct{})}

	s.mu.Lock()
	prev := s.pending[key]
	s.pending[key] = t
	s.mu.Unlock()

	if prev != nil {
		prev.cancel(errSuperseded)
	}
	return t
}

// supersede drops the pending submission for key, if any, so it never
// reports success over a newer rejected attempt.
func (s *Submitter) supersede(key string) bool {
	s.mu.Lock()
	prev, ok := s.pending[key]
	delete(s.pending, key)
	s.mu.Unlock()

	if ok {
		prev.cancel(errSuperseded)
	}
	return ok
}

func (s *Submitter) finish(key string, t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[key] == t {
		delete(s.pending, key)
	}
}

// flush flushes every target that buffers output. Flushing the same target
// twice is harmless.
func flush(targets ...any) error {
	var errs []error
	for _, target := range targets {
		if f, ok := target.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}
