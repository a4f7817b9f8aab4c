package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/landing/binder"
	"github.com/dmitrymomot/landing/handler"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
)

// Mountable is a module exposing its routes as one handler.
type Mountable interface {
	Handle() http.Handler
}

var _ Mountable = (*Service)(nil)

// Handle returns the module router. Mount it at the service base path:
//
//	r := chi.NewRouter()
//	r.Mount(contact.DefaultBasePath, svc.Handle())
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", handler.Wrap(s.page,
		handler.WithErrorHandler[handler.Context, pageRequest](s.errors),
	))

	// DataStar posts the signal store as JSON; the plain HTML form posts
	// urlencoded values. Each binder skips the other's requests.
	r.Post("/", handler.Wrap(s.submit,
		handler.WithBinders[handler.Context, submitRequest](
			binder.Signals(),
			binder.Form(),
		),
		handler.WithErrorHandler[handler.Context, submitRequest](s.errors),
		handler.WithDecorators[handler.Context, submitRequest](s.limitSubmissions),
	))

	r.Route("/fields/{field}", func(r chi.Router) {
		r.Post("/blur", handler.Wrap(s.fieldEvent((*formvalidator.Form).Blur),
			handler.WithBinders[handler.Context, fieldRequest](
				binder.Path(chi.URLParam),
				binder.Signals(),
			),
			handler.WithErrorHandler[handler.Context, fieldRequest](s.errors),
		))
		r.Post("/input", handler.Wrap(s.fieldEvent((*formvalidator.Form).Input),
			handler.WithBinders[handler.Context, fieldRequest](
				binder.Path(chi.URLParam),
				binder.Signals(),
			),
			handler.WithErrorHandler[handler.Context, fieldRequest](s.errors),
		))
	})

	return r
}
