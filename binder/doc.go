// Package binder decodes HTTP requests into request structs for handler.Wrap.
//
// Binders are applied in order; one that does not understand the request's
// encoding returns ErrBinderNotApplicable and is skipped. A single struct can
// therefore accept both DataStar signal posts and plain HTML form posts:
//
//	type submitRequest struct {
//		FormID string            `json:"formId" form:"formId"`
//		Values map[string]string `json:"values" form:"values"`
//	}
//
//	handler.WithBinders[handler.Context, submitRequest](
//		binder.Path(chi.URLParam),
//		binder.Signals(),
//		binder.Form(),
//	)
//
// Signals reads the JSON signal store via datastar.ReadSignals. Form reads
// url-encoded bodies, mapping `form` tags; a map[string]string field tagged
// `form:"values"` collects every values.<key> input. Path reads router
// parameters through an extractor such as chi.URLParam.
package binder
