package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/landing/binder"
	"github.com/dmitrymomot/landing/handler"
)

type greetRequest struct {
	Name string `form:"name" json:"name"`
	Tag  string `path:"tag"`
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func dataStarRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.DataStarRequestHeader, "true")
	return req
}

func formRequest(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestWrap(t *testing.T) {
	t.Parallel()

	greet := handler.HandlerFunc[handler.Context, greetRequest](func(_ handler.Context, req greetRequest) handler.Response {
		return handler.Templ(text("hello " + req.Name + req.Tag))
	})

	t.Run("binds with the applicable binder", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet,
			handler.WithBinders[handler.Context, greetRequest](binder.Signals(), binder.Form()),
		)

		rec := httptest.NewRecorder()
		h(rec, formRequest("/", "name=ann"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello ann", rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("path binder", func(t *testing.T) {
		t.Parallel()
		extract := func(_ *http.Request, name string) string {
			if name == "tag" {
				return "!"
			}
			return ""
		}
		h := handler.Wrap(greet,
			handler.WithBinders[handler.Context, greetRequest](binder.Path(extract), binder.Form()),
		)

		rec := httptest.NewRecorder()
		h(rec, formRequest("/", "name=bo"))
		assert.Equal(t, "hello bo!", rec.Body.String())
	})

	t.Run("binding error is a bad request", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(greet, handler.WithBinders[handler.Context, greetRequest](binder.Form()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response { return nil }),
			handler.WithErrorHandler[handler.Context, greetRequest](func(_ handler.Context, err error) { got = err }),
		)

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, greetRequest] {
			return func(next handler.HandlerFunc[handler.Context, greetRequest]) handler.HandlerFunc[handler.Context, greetRequest] {
				return func(ctx handler.Context, req greetRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(greet, handler.WithDecorators(mark("outer"), mark("inner")))

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("error response reaches the error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response {
			return handler.Error(handler.ErrNotFound)
		}))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("render error goes to the error handler", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		h := handler.Wrap(handler.HandlerFunc[handler.Context, greetRequest](func(handler.Context, greetRequest) handler.Response {
			return handler.Templ(templ.ComponentFunc(func(context.Context, io.Writer) error { return boom }))
		}))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestIsDataStar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  func() *http.Request
		want bool
	}{
		{"datastar header", func() *http.Request { return dataStarRequest(http.MethodPost, "/", "{}") }, true},
		{"event stream accept", func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Accept", "text/event-stream")
			return r
		}, true},
		{"query param", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/?datastar=%7B%7D", nil) }, true},
		{"plain", func() *http.Request { return httptest.NewRequest(http.MethodGet, "/", nil) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handler.IsDataStar(tt.req()))
		})
	}
}

func TestTempl_DataStar(t *testing.T) {
	t.Parallel()

	resp := handler.TemplMulti(
		handler.Patch(text(`<div id="a">A</div>`)),
		handler.Patch(text(`<p>B</p>`), handler.WithTarget("#toast-container"), handler.WithPatchMode(handler.PatchPrepend)),
	)

	rec := httptest.NewRecorder()
	require.NoError(t, resp.Render(rec, dataStarRequest(http.MethodPost, "/", "{}")))

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 2, strings.Count(body, "event: datastar-patch-elements"))
	assert.Contains(t, body, "#toast-container")
	assert.Contains(t, body, "prepend")
}

func TestSSE(t *testing.T) {
	t.Parallel()

	t.Run("streams signals", func(t *testing.T) {
		t.Parallel()
		resp := handler.SSE(func(stream handler.StreamContext) error {
			if err := stream.SendSignal("loading", true); err != nil {
				return err
			}
			return stream.SendSignals(map[string]any{"invalid": map[string]any{"email": nil}})
		})

		rec := httptest.NewRecorder()
		require.NoError(t, resp.Render(rec, dataStarRequest(http.MethodPost, "/", "{}")))

		body := rec.Body.String()
		assert.Equal(t, 2, strings.Count(body, "event: datastar-patch-signals"))
		assert.Contains(t, body, `{"loading":true}`)
		assert.Contains(t, body, `{"invalid":{"email":null}}`)
	})

	t.Run("requires datastar", func(t *testing.T) {
		t.Parallel()
		resp := handler.SSE(func(handler.StreamContext) error { return nil })

		err := resp.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		var httpErr handler.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("stream context requires datastar", func(t *testing.T) {
		t.Parallel()
		ctx := handler.NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := handler.NewStreamContext(ctx)
		require.ErrorIs(t, err, handler.ErrSSENotInitialized)
	})
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	t.Run("plain", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/contact").Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/contact", rec.Header().Get("Location"))
	})

	t.Run("datastar", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		require.NoError(t, handler.Redirect("/contact").Render(rec, dataStarRequest(http.MethodGet, "/", "")))
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "/contact")
	})
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.Empty().Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := handler.NewHTTPError(http.StatusNotFound, "").Wrap(cause)
	assert.Equal(t, "Not Found", err.Error())
	require.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusNotFound, handler.ErrNotFound.Code)
}
