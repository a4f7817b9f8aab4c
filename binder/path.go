package binder

import (
	"fmt"
	"net/http"
)

// Path creates a path parameter binder using extractor, typically chi.URLParam.
// Fields opt in with `path:"name"`.
//
// Example:
//
//	type fieldRequest struct {
//		Field string `path:"field" json:"-"`
//	}
//
//	r.Post("/fields/{field}/blur", handler.Wrap(blur,
//		handler.WithBinders[handler.Context, fieldRequest](binder.Path(chi.URLParam), binder.Signals()),
//	))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}

		rv, err := structValue(v, ErrInvalidPath)
		if err != nil {
			return err
		}
		rt := rv.Type()

		for i := range rv.NumField() {
			field := rv.Field(i)
			fieldType := rt.Field(i)
			if !field.CanSet() {
				continue
			}

			name, skip := parseFieldTag(fieldType, "path")
			if skip {
				continue
			}

			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setFieldValue(field, fieldType.Type, value); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrInvalidPath, fieldType.Name, err)
			}
		}

		return nil
	}
}
