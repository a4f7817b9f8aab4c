package handler

import (
	"encoding/json"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// StreamContext extends Context with methods that push updates through an
// open DataStar event stream.
type StreamContext interface {
	Context

	// SendComponent patches a templ component into the page.
	//
	//	err := stream.SendComponent(views.Toast(notice),
	//		handler.WithTarget("#toast-container"),
	//		handler.WithPatchMode(handler.PatchPrepend),
	//	)
	SendComponent(component templ.Component, opts ...TemplOption) error

	// SendMultiple patches several components in order.
	SendMultiple(patches ...TemplPatch) error

	// SendSignal updates a single signal. A nil value removes it.
	SendSignal(name string, value any) error

	// SendSignals merges signals into the client store. Nested maps patch
	// nested signals; nil values remove them.
	//
	//	err := stream.SendSignals(map[string]any{
	//		"loading": false,
	//		"invalid": map[string]any{"email": true},
	//	})
	SendSignals(signals map[string]any) error
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

// NewStreamContext wraps ctx for streaming. It returns ErrSSENotInitialized
// when the request is not a DataStar request.
func NewStreamContext(ctx Context) (StreamContext, error) {
	sse := ctx.SSE()
	if sse == nil {
		return nil, ErrSSENotInitialized
	}
	return &streamContext{Context: ctx, sse: sse}, nil
}

func (c *streamContext) SendComponent(component templ.Component, opts ...TemplOption) error {
	return c.sse.PatchElementTempl(component, opts...)
}

func (c *streamContext) SendMultiple(patches ...TemplPatch) error {
	for _, p := range patches {
		if err := c.sse.PatchElementTempl(p.Component, p.Options...); err != nil {
			return err
		}
	}
	return nil
}

func (c *streamContext) SendSignal(name string, value any) error {
	return c.SendSignals(map[string]any{name: value})
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return c.sse.PatchSignals(data)
}
