package contact

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmitrymomot/landing/handler"
	"github.com/dmitrymomot/landing/pkg/clientip"
	"github.com/dmitrymomot/landing/pkg/formvalidator"
	"github.com/dmitrymomot/landing/pkg/logger"
)

// MessageTooManySubmissions is shown when a client exceeds the submission limit.
const MessageTooManySubmissions = "Too many messages, please try again in a moment"

type pageRequest struct{}

// fieldRequest is a blur or input event on one field. Values and Invalid are
// the client's signal store at the time of the event.
type fieldRequest struct {
	Field   string            `path:"field" json:"-"`
	FormID  string            `json:"formId"`
	Values  map[string]string `json:"values"`
	Invalid map[string]bool   `json:"invalid"`
}

// submitRequest is a submit attempt, from DataStar signals or a plain form post.
type submitRequest struct {
	FormID  string            `json:"formId" form:"formId"`
	Values  map[string]string `json:"values" form:"values"`
	Invalid map[string]bool   `json:"invalid" form:"-"`
}

type fieldEventFunc func(f *formvalidator.Form, ctx context.Context, name string) (formvalidator.FieldState, error)

func (s *Service) page(_ handler.Context, _ pageRequest) handler.Response {
	return handler.Templ(s.views.Page(s.pageParams(uuid.NewString(), nil, nil)))
}

// fieldEvent returns a handler applying event to the field named in the path
// and streaming the resulting signals.
func (s *Service) fieldEvent(event fieldEventFunc) handler.HandlerFunc[handler.Context, fieldRequest] {
	return func(_ handler.Context, req fieldRequest) handler.Response {
		if _, ok := s.rules.Lookup(req.Field); !ok {
			return handler.Error(handler.NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("unknown field %q", req.Field)).Wrap(formvalidator.ErrUnknownField))
		}

		return handler.SSE(func(stream handler.StreamContext) error {
			p := newSignalPresenter(stream, s.views, req.Invalid)
			form := s.validator.NewForm(p, s.fields(req.Values))
			if _, err := event(form, stream, req.Field); err != nil {
				return err
			}
			return p.Flush()
		})
	}
}

func (s *Service) submit(ctx handler.Context, req submitRequest) handler.Response {
	key := formKey(req.FormID)

	if !handler.IsDataStar(ctx.Request()) {
		rec := formvalidator.NewRecorder()
		form := s.validator.NewForm(rec, s.fields(req.Values))
		outcome, err := s.submitter.Submit(ctx, key, form, rec)
		if err != nil {
			return handler.Error(err)
		}
		if outcome == formvalidator.OutcomeSent {
			key = uuid.NewString()
		}
		return handler.Templ(s.views.Page(s.pageParams(key, form.Values(), rec)))
	}

	return handler.SSE(func(stream handler.StreamContext) error {
		if key != req.FormID {
			if err := stream.SendSignal("formId", key); err != nil {
				return err
			}
		}
		p := newSignalPresenter(stream, s.views, req.Invalid)
		form := s.validator.NewForm(p, s.fields(req.Values))
		_, err := s.submitter.Submit(stream, key, form, p)
		return err
	})
}

// limitSubmissions rejects submit attempts beyond the client's budget. The
// Retry-After header is always set. Page requests get a 429 page and DataStar
// requests a warning toast on a 200 event stream.
func (s *Service) limitSubmissions(next handler.HandlerFunc[handler.Context, submitRequest]) handler.HandlerFunc[handler.Context, submitRequest] {
	return func(ctx handler.Context, req submitRequest) handler.Response {
		if s.limiter == nil {
			return next(ctx, req)
		}

		ip := clientip.FromContext(ctx)
		if ip == "" {
			ip = clientip.GetIP(ctx.Request())
		}

		res, err := s.limiter.Allow(ctx, ip)
		if err != nil {
			return handler.Error(err)
		}
		if !res.Allowed() {
			retry := res.RetryAfter(s.now())
			s.log.WarnContext(ctx, "submission rate limited",
				logger.ClientIP(ip),
				logger.FormID(req.FormID),
				logger.Duration(retry),
			)
			seconds := int(math.Ceil(retry.Seconds()))
			ctx.ResponseWriter().Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
			return handler.Error(handler.NewHTTPError(http.StatusTooManyRequests, MessageTooManySubmissions))
		}
		return next(ctx, req)
	}
}

// pageParams builds the page for form key. values and rec carry the state of
// a server-rendered submission and may be nil.
func (s *Service) pageParams(key string, values map[string]string, rec *formvalidator.Recorder) PageParams {
	p := PageParams{
		Title:          s.cfg.Title,
		DatastarScript: s.cfg.DatastarScript,
		Action:         s.basePath,
		FormID:         key,
	}

	var snap formvalidator.Snapshot
	if rec != nil {
		snap = rec.Snapshot()
		p.Loading = snap.Loading
		p.Notices = snap.Notices
	}

	for _, name := range s.rules.Names() {
		f := fieldView(s.basePath, name)
		f.Value = values[name]
		f.Error = snap.Errors[name]
		f.Invalid = f.Error != ""
		p.Fields = append(p.Fields, f)
	}
	return p
}

// formKey returns id when it is a valid form id and a fresh one otherwise.
func formKey(id string) string {
	if _, err := uuid.Parse(id); err != nil {
		return uuid.NewString()
	}
	return id
}
