package formvalidator

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/dmitrymomot/landing/pkg/validator"
)

// Field names of the contact form.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldMessage   = "message"
)

// DefaultRequiredMessage is shown for any empty field.
const DefaultRequiredMessage = "This field is required"

// FieldRule maps a field name to the pattern its trimmed value must match and
// the message shown when it does not. A nil Pattern makes the field
// required-only.
type FieldRule struct {
	Name    string
	Pattern *regexp.Regexp
	Message string
}

func (r FieldRule) check(value string) validator.Rule {
	return validator.MatchesPattern(r.Name, value, r.Pattern, r.Name).WithMessage(r.Message)
}

// RuleSet is an immutable, ordered table of FieldRules. It is built once at
// startup and shared by every form.
type RuleSet struct {
	rules    map[string]FieldRule
	order    []string
	required string
}

// NewRuleSet validates and freezes rules. An empty required message falls back
// to DefaultRequiredMessage.
func NewRuleSet(requiredMessage string, rules ...FieldRule) (*RuleSet, error) {
	if requiredMessage == "" {
		requiredMessage = DefaultRequiredMessage
	}

	rs := &RuleSet{
		rules:    make(map[string]FieldRule, len(rules)),
		order:    make([]string, 0, len(rules)),
		required: requiredMessage,
	}

	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: rule[%d] has no field name", ErrInvalidRules, i)
		}
		if _, dup := rs.rules[r.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for %q", ErrInvalidRules, r.Name)
		}
		if r.Pattern != nil && r.Message == "" {
			return nil, fmt.Errorf("%w: rule for %q has a pattern but no message", ErrInvalidRules, r.Name)
		}
		rs.rules[r.Name] = r
		rs.order = append(rs.order, r.Name)
	}

	return rs, nil
}

// MustRuleSet is like NewRuleSet but panics on invalid input.
func MustRuleSet(requiredMessage string, rules ...FieldRule) *RuleSet {
	rs, err := NewRuleSet(requiredMessage, rules...)
	if err != nil {
		panic(err)
	}
	return rs
}

var defaultRules = MustRuleSet(DefaultRequiredMessage,
	FieldRule{
		Name:    FieldFirstName,
		Pattern: regexp.MustCompile(`^[a-zA-Z]{2,}$`),
		Message: "Please enter a valid first name (minimum 2 letters)",
	},
	FieldRule{
		Name:    FieldLastName,
		Pattern: regexp.MustCompile(`^[a-zA-Z]{1,}$`),
		Message: "Please enter a valid last name",
	},
	FieldRule{
		Name:    FieldEmail,
		Pattern: regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`),
		Message: "Please enter a valid email address",
	},
	FieldRule{
		Name:    FieldPhone,
		Pattern: regexp.MustCompile(`^(\+91[\-\s]?)?[6-9]\d{9}$`),
		Message: "Please enter a valid Indian phone number",
	},
	FieldRule{
		Name:    FieldMessage,
		Pattern: regexp.MustCompile(`(?s)^.{10,}$`),
		Message: "Message must be at least 10 characters long",
	},
)

// DefaultRules returns the contact form rule table.
func DefaultRules() *RuleSet {
	return defaultRules
}

// Lookup returns the rule registered for name.
func (rs *RuleSet) Lookup(name string) (FieldRule, bool) {
	r, ok := rs.rules[name]
	return r, ok
}

// Names returns field names in declaration order.
func (rs *RuleSet) Names() []string {
	return slices.Clone(rs.order)
}

// RequiredMessage returns the message used for empty values.
func (rs *RuleSet) RequiredMessage() string {
	return rs.required
}

// Rules returns a copy of the rules in declaration order.
func (rs *RuleSet) Rules() []FieldRule {
	out := make([]FieldRule, 0, len(rs.order))
	for _, name := range rs.order {
		out = append(out, rs.rules[name])
	}
	return out
}
