package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// Form creates a binder for application/x-www-form-urlencoded bodies, the
// encoding of a plain HTML form post.
//
// Struct tags:
//   - `form:"name"` binds form field "name"
//   - `form:"values"` on a map[string]string collects values.<key> fields
//   - no tag or `form:"-"` skips the field
//
// DataStar requests and JSON bodies are left to Signals and report
// ErrBinderNotApplicable.
//
// Example:
//
//	type submitRequest struct {
//		FormID string            `json:"formId" form:"formId"`
//		Values map[string]string `json:"values" form:"values"`
//	}
//
//	r.Post("/contact", handler.Wrap(submit,
//		handler.WithBinders[handler.Context, submitRequest](binder.Signals(), binder.Form()),
//	))
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Header.Get(DatastarRequestHeader) == "true" {
			return ErrBinderNotApplicable
		}

		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/x-www-form-urlencoded", ErrMissingContentType)
		}

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
		case "application/json":
			return ErrBinderNotApplicable
		default:
			return fmt.Errorf("%w: got %s, expected application/x-www-form-urlencoded", ErrUnsupportedMediaType, mediaType)
		}

		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}

		return bindToStruct(v, "form", r.PostForm, ErrInvalidForm)
	}
}
