// Package handler provides type-safe HTTP handlers that render templ
// components as full pages or as DataStar server-sent events.
//
// A HandlerFunc receives a Context and a request struct filled by binders and
// returns a Response; Wrap adapts it to http.HandlerFunc:
//
//	type fieldRequest struct {
//		Field   string          `path:"field" json:"-"`
//		Invalid map[string]bool `json:"invalid"`
//	}
//
//	func blur(ctx handler.Context, req fieldRequest) handler.Response {
//		return handler.SSE(func(stream handler.StreamContext) error {
//			return stream.SendSignal("loading", false)
//		})
//	}
//
//	r.Post("/fields/{field}/blur", handler.Wrap(blur,
//		handler.WithBinders[handler.Context, fieldRequest](binder.Path(chi.URLParam), binder.Signals()),
//	))
//
// # Responses
//
//	handler.Templ(component, opts...)   // HTML page, or an element patch for DataStar
//	handler.TemplMulti(patches...)      // several components
//	handler.SSE(func(StreamContext) error { ... })
//	handler.Redirect("/contact")        // 303, or a client-side redirect for DataStar
//	handler.Empty()                     // 204
//
// # DataStar
//
// Requests carrying the Datastar-Request header (or accepting
// text/event-stream) are DataStar requests. Context.SSE opens their event
// stream on first use; StreamContext sends element patches and signal patches
// through it.
//
// # Errors
//
// Binding failures become 400 HTTPErrors. NewErrorHandler classifies errors
// (HTTPError status, validator.ValidationErrors as 422, anything else 500),
// logs them with the request id and renders an error page or, for DataStar
// requests, a toast.
package handler
