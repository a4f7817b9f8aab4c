package contact

import (
	"context"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmitrymomot/landing/handler"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
	"github.com/dmitrymomot/landing/pkg/logger"
	"github.com/dmitrymomot/landing/pkg/ratelimiter"
)

// DefaultBasePath is where the module expects to be mounted.
const DefaultBasePath = "/contact"

// Service serves the contact page and drives its form over DataStar.
type Service struct {
	cfg       Config
	basePath  string
	rules     *formvalidator.RuleSet
	now       func() time.Time
	log       *slog.Logger
	policy    *bluemonday.Policy
	onSent    []formvalidator.CompletionFunc
	errors    handler.ErrorHandler[handler.Context]
	limiter   ratelimiter.RateLimiter
	views     *Views
	validator *formvalidator.Validator
	submitter *formvalidator.Submitter
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRules replaces the default field rules.
func WithRules(rs *formvalidator.RuleSet) Option {
	return func(s *Service) {
		if rs != nil {
			s.rules = rs
		}
	}
}

// WithBasePath sets the path the module is mounted at.
func WithBasePath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.basePath = path
		}
	}
}

// WithClock sets the time source of rendered pages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCompletion registers fn to run after each sent submission.
func WithCompletion(fn formvalidator.CompletionFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.onSent = append(s.onSent, fn)
		}
	}
}

// WithLimiter replaces the submission rate limiter built from Config.
func WithLimiter(l ratelimiter.RateLimiter) Option {
	return func(s *Service) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithErrorHandler replaces the error handler of the module's routes.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errors = h
		}
	}
}

// NewService creates the contact service. A non-positive cfg.SubmitDelay
// falls back to formvalidator.DefaultSubmitDelay. It panics if cfg asks for a
// submission limit with a non-positive refill period.
func NewService(cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		basePath: DefaultBasePath,
		rules:    formvalidator.DefaultRules(),
		now:      time.Now,
		log:      logger.Discard(),
		policy:   bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("contact"))

	delay := cfg.SubmitDelay
	if delay <= 0 {
		delay = formvalidator.DefaultSubmitDelay
	}

	submitterOpts := []formvalidator.SubmitterOption{
		formvalidator.WithDelay(delay),
		formvalidator.WithSubmitterLogger(s.log),
		formvalidator.WithCompletion(s.logSubmission),
	}
	for _, fn := range s.onSent {
		submitterOpts = append(submitterOpts, formvalidator.WithCompletion(fn))
	}

	if s.limiter == nil && cfg.SubmitBurst > 0 {
		limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
			Capacity:       cfg.SubmitBurst,
			RefillRate:     1,
			RefillInterval: cfg.SubmitRefill,
		}, ratelimiter.WithClock(s.now))
		if err != nil {
			panic(err)
		}
		s.limiter = limiter
	}

	s.views = NewViews(s.now)
	if s.errors == nil {
		s.errors = handler.NewErrorHandler(s.log, s.views.ErrorHandlerConfig())
	}
	s.validator = formvalidator.New(s.rules, formvalidator.WithLogger(s.log))
	s.submitter = formvalidator.NewSubmitter(submitterOpts...)
	return s
}

// Submitter returns the submitter shared by all requests of the service.
func (s *Service) Submitter() *formvalidator.Submitter {
	return s.submitter
}

// logSubmission records a sent message. Markup is stripped from every value
// so the log never carries submitted HTML.
func (s *Service) logSubmission(ctx context.Context, key string, values map[string]string) {
	attrs := make([]slog.Attr, 0, len(values))
	for _, name := range s.rules.Names() {
		if v, ok := values[name]; ok {
			attrs = append(attrs, slog.String(name, s.policy.Sanitize(v)))
		}
	}
	s.log.InfoContext(ctx, "contact message received",
		logger.FormID(key),
		logger.Group("values", attrs...),
	)
}

// fields builds the form fields in rule order from submitted values.
func (s *Service) fields(values map[string]string) []*formvalidator.Field {
	names := s.rules.Names()
	fields := make([]*formvalidator.Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, &formvalidator.Field{Name: name, Value: values[name]})
	}
	return fields
}
