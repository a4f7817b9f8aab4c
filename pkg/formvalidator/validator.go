package formvalidator

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/dmitrymomot/landing/pkg/logger"
	"github.com/dmitrymomot/landing/pkg/validator"
)

// Reason says why a value failed.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonRequired Reason = "required"
	ReasonPattern  Reason = "pattern"
)

// Result is the outcome of checking one value against its rule.
type Result struct {
	Field   string
	Valid   bool
	Reason  Reason
	Message string
}

// Validator checks field values against a RuleSet and renders the outcome on
// a Presenter. It holds no per-form state and is safe for concurrent use.
type Validator struct {
	rules  *RuleSet
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for debug output on rejected values.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New creates a Validator over rules. A nil rule set means DefaultRules.
func New(rules *RuleSet, opts ...Option) *Validator {
	if rules == nil {
		rules = DefaultRules()
	}
	v := &Validator{rules: rules, logger: logger.Discard()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rules returns the rule set the validator was built with.
func (v *Validator) Rules() *RuleSet {
	return v.rules
}

// Check evaluates value for the named field without rendering anything.
// The value is trimmed first. An empty value always fails as required and is
// never matched against the field pattern. Names without a rule are
// required-only.
func (v *Validator) Check(name, value string) Result {
	trimmed := trim(value)

	rules := []validator.Rule{
		validator.RequiredString(name, trimmed).WithMessage(v.rules.RequiredMessage()),
	}
	if rule, ok := v.rules.Lookup(name); ok && rule.Pattern != nil {
		rules = append(rules, rule.check(trimmed))
	}

	failed := validator.First(rules...)
	if failed == nil {
		return Result{Field: name, Valid: true}
	}

	reason := ReasonPattern
	if failed.TranslationKey == "validation.required" {
		reason = ReasonRequired
	}
	return Result{Field: name, Reason: reason, Message: failed.Message}
}

// trim strips leading and trailing white space, including Unicode spaces and
// the byte order mark, the set browsers strip when trimming input.
func trim(value string) string {
	return strings.TrimFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// ValidateField checks f and renders the result: an invalid field gets the
// invalid marker and its message, a valid one loses both. It returns true
// exactly when the field ends up valid.
func (v *Validator) ValidateField(p Presenter, f Field) bool {
	res := v.Check(f.Name, f.Value)
	v.render(p, res)
	return res.Valid
}

// ValidateForm validates every field, never stopping early, so each field
// gets feedback. It returns true only if all fields are valid.
func (v *Validator) ValidateForm(p Presenter, fields []*Field) bool {
	ok := true
	for _, f := range fields {
		if !v.ValidateField(p, *f) {
			ok = false
		}
	}
	return ok
}

func (v *Validator) render(p Presenter, res Result) {
	if res.Valid {
		p.MarkValid(res.Field)
		p.SetError(res.Field, "")
		return
	}

	v.logger.Debug("field rejected",
		logger.Component("formvalidator"),
		logger.Field(res.Field),
		slog.String("reason", string(res.Reason)),
	)
	p.MarkInvalid(res.Field)
	p.SetError(res.Field, res.Message)
}
