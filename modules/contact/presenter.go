package contact

import (
	"maps"

	"github.com/dmitrymomot/landing/handler"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
)

// signalPresenter renders field state as DataStar signal patches. Updates are
// buffered and sent on Flush, one signal patch followed by any toasts.
//
// Field state comes from the client's invalid signals: a field whose key is
// absent is Untouched, true is Invalid and false is Valid. It is request
// scoped and not safe for concurrent use.
type signalPresenter struct {
	stream handler.StreamContext
	views  *Views

	state   map[string]bool
	invalid map[string]any
	errors  map[string]any
	values  map[string]any
	loading *bool
	notices []formvalidator.Notice
}

func newSignalPresenter(stream handler.StreamContext, views *Views, invalid map[string]bool) *signalPresenter {
	state := maps.Clone(invalid)
	if state == nil {
		state = make(map[string]bool)
	}
	return &signalPresenter{
		stream:  stream,
		views:   views,
		state:   state,
		invalid: make(map[string]any),
		errors:  make(map[string]any),
		values:  make(map[string]any),
	}
}

func (p *signalPresenter) MarkInvalid(field string) {
	p.state[field] = true
	p.invalid[field] = true
}

func (p *signalPresenter) MarkValid(field string) {
	p.state[field] = false
	p.invalid[field] = false
}

func (p *signalPresenter) SetError(field, text string) {
	p.errors[field] = text
}

func (p *signalPresenter) FieldState(field string) formvalidator.FieldState {
	invalid, ok := p.state[field]
	switch {
	case !ok:
		return formvalidator.StateUntouched
	case invalid:
		return formvalidator.StateInvalid
	default:
		return formvalidator.StateValid
	}
}

func (p *signalPresenter) SetLoading(loading bool) {
	p.loading = &loading
}

func (p *signalPresenter) Notify(kind formvalidator.NoticeKind, text string) {
	p.notices = append(p.notices, formvalidator.Notice{Kind: kind, Text: text})
}

// ClearValue empties the input and drops the field's invalid signal, which
// returns it to Untouched on the client.
func (p *signalPresenter) ClearValue(field string) {
	delete(p.state, field)
	p.values[field] = ""
	p.invalid[field] = nil
	p.errors[field] = ""
}

// pending returns the buffered signal patch, or nil if there is none.
func (p *signalPresenter) pending() map[string]any {
	patch := make(map[string]any)
	for name, m := range map[string]map[string]any{
		"invalid": p.invalid,
		"errors":  p.errors,
		"values":  p.values,
	} {
		if len(m) > 0 {
			patch[name] = maps.Clone(m)
		}
	}
	if p.loading != nil {
		patch["loading"] = *p.loading
	}
	if len(patch) == 0 {
		return nil
	}
	return patch
}

func (p *signalPresenter) Flush() error {
	patch := p.pending()
	notices := p.notices

	clear(p.invalid)
	clear(p.errors)
	clear(p.values)
	p.loading = nil
	p.notices = nil

	if patch != nil {
		if err := p.stream.SendSignals(patch); err != nil {
			return err
		}
	}
	for _, n := range notices {
		err := p.stream.SendComponent(p.views.Toast(n),
			handler.WithTarget(ToastTarget),
			handler.WithPatchMode(handler.PatchPrepend),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
