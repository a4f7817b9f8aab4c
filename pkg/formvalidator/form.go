package formvalidator

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/landing/pkg/statemachine"
	"github.com/dmitrymomot/landing/pkg/validator"
)

// FieldState is the lifecycle state of one field: Untouched until first
// validated, then Valid or Invalid.
type FieldState string

const (
	StateUntouched FieldState = "untouched"
	StateValid     FieldState = "valid"
	StateInvalid   FieldState = "invalid"
)

type fieldEvent string

const (
	eventBlur   fieldEvent = "blur"
	eventInput  fieldEvent = "input"
	eventSubmit fieldEvent = "submit"
	eventReset  fieldEvent = "reset"
)

// Field is one named input and its current text.
type Field struct {
	Name  string
	Value string
}

// Form is one rendered instance of a form: the fields present on the page at
// the time of the event, in page order, and their lifecycle state. A Form is
// meant to live for a single event (request) and is not safe for concurrent use.
type Form struct {
	v        *Validator
	p        Presenter
	fields   []*Field
	index    map[string]int
	machines map[string]*statemachine.Machine[FieldState, fieldEvent]
}

// NewForm binds fields to presenter p. Initial field states come from p when
// it implements StateSource and are Untouched otherwise.
func (v *Validator) NewForm(p Presenter, fields []*Field) *Form {
	f := &Form{
		v:        v,
		p:        p,
		fields:   fields,
		index:    make(map[string]int, len(fields)),
		machines: make(map[string]*statemachine.Machine[FieldState, fieldEvent], len(fields)),
	}

	transitions := f.transitions()
	src, _ := p.(StateSource)
	for i, field := range fields {
		f.index[field.Name] = i
		initial := StateUntouched
		if src != nil {
			initial = src.FieldState(field.Name)
		}
		f.machines[field.Name] = statemachine.MustNew(initial, statemachine.WithTransitions(transitions...))
	}
	return f
}

// transitions builds the per-field lifecycle:
//
//	Untouched, Valid, Invalid --blur|submit--> Valid | Invalid
//	Invalid                   --input-------> Valid | Invalid
//	any                       --reset-------> Untouched
//
// Input on an Untouched or Valid field has no transition and is ignored.
func (f *Form) transitions() []statemachine.Transition[FieldState, fieldEvent] {
	passes := func(_ context.Context, _ FieldState, _ fieldEvent, data any) bool {
		res, _ := data.(Result)
		return res.Valid
	}
	render := func(_ context.Context, _, _ FieldState, _ fieldEvent, data any) error {
		res, ok := data.(Result)
		if !ok {
			return fmt.Errorf("formvalidator: unexpected transition data %T", data)
		}
		f.v.render(f.p, res)
		return nil
	}
	unmark := func(_ context.Context, _, _ FieldState, _ fieldEvent, data any) error {
		name, _ := data.(string)
		f.p.MarkValid(name)
		f.p.SetError(name, "")
		return nil
	}

	var ts []statemachine.Transition[FieldState, fieldEvent]
	validate := func(from FieldState, ev fieldEvent) {
		ts = append(ts,
			statemachine.Transition[FieldState, fieldEvent]{
				From: from, To: StateValid, Event: ev,
				Guards:  []statemachine.Guard[FieldState, fieldEvent]{passes},
				Actions: []statemachine.Action[FieldState, fieldEvent]{render},
			},
			statemachine.Transition[FieldState, fieldEvent]{
				From: from, To: StateInvalid, Event: ev,
				Actions: []statemachine.Action[FieldState, fieldEvent]{render},
			},
		)
	}

	for _, from := range []FieldState{StateUntouched, StateValid, StateInvalid} {
		validate(from, eventBlur)
		validate(from, eventSubmit)
		ts = append(ts, statemachine.Transition[FieldState, fieldEvent]{
			From: from, To: StateUntouched, Event: eventReset,
			Actions: []statemachine.Action[FieldState, fieldEvent]{unmark},
		})
	}
	validate(StateInvalid, eventInput)

	return ts
}

func (f *Form) field(name string) (*Field, *statemachine.Machine[FieldState, fieldEvent], error) {
	i, ok := f.index[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.fields[i], f.machines[name], nil
}

func (f *Form) fire(ctx context.Context, name string, ev fieldEvent) (FieldState, error) {
	field, m, err := f.field(name)
	if err != nil {
		return "", err
	}
	return m.Fire(ctx, ev, f.v.Check(field.Name, field.Value))
}

// Blur revalidates the named field and returns its new state.
func (f *Form) Blur(ctx context.Context, name string) (FieldState, error) {
	return f.fire(ctx, name, eventBlur)
}

// Input revalidates the named field only if it is currently Invalid, so a
// user is not shown errors while typing into a field they have not left yet.
// It returns the field state after the event.
func (f *Form) Input(ctx context.Context, name string) (FieldState, error) {
	state, err := f.fire(ctx, name, eventInput)
	if statemachine.IsNoTransitionAvailableError(err) {
		return state, nil
	}
	return state, err
}

// Validate revalidates every field, as a submit attempt does, and reports
// whether all of them are valid.
func (f *Form) Validate(ctx context.Context) (bool, error) {
	ok := true
	for _, field := range f.fields {
		state, err := f.fire(ctx, field.Name, eventSubmit)
		if err != nil {
			return false, err
		}
		if state != StateValid {
			ok = false
		}
	}
	return ok, nil
}

// Reset empties every value and returns every field to Untouched, clearing
// markers and error text.
func (f *Form) Reset(ctx context.Context) error {
	for _, field := range f.fields {
		field.Value = ""
		if _, err := f.machines[field.Name].Fire(ctx, eventReset, field.Name); err != nil {
			return err
		}
	}
	return nil
}

// SetValue updates the text of the named field without validating it.
func (f *Form) SetValue(name, value string) error {
	field, _, err := f.field(name)
	if err != nil {
		return err
	}
	field.Value = value
	return nil
}

// State returns the lifecycle state of the named field, or "" if the form has
// no such field.
func (f *Form) State(name string) FieldState {
	m, ok := f.machines[name]
	if !ok {
		return ""
	}
	return m.Current()
}

// Values returns the current field values keyed by name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field.Name] = field.Value
	}
	return out
}

// Fields returns the field names in page order.
func (f *Form) Fields() []string {
	out := make([]string, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, field.Name)
	}
	return out
}

// Errors returns the failures of fields currently Invalid as
// validator.ValidationErrors, or nil when there are none.
func (f *Form) Errors() error {
	var errs validator.ValidationErrors
	for _, field := range f.fields {
		if f.State(field.Name) != StateInvalid {
			continue
		}
		res := f.v.Check(field.Name, field.Value)
		if res.Valid {
			continue
		}
		errs.Add(validator.ValidationError{Field: field.Name, Message: res.Message})
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}
