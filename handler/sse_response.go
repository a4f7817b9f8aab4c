package handler

import "net/http"

// SSEHandler runs for the lifetime of an SSE response. The stream closes when
// it returns or the client disconnects; stream.Done() reports the latter.
//
//	handler.SSE(func(stream handler.StreamContext) error {
//		ui := newPresenter(stream)
//		_, err := submitter.Submit(stream, req.FormID, form, ui)
//		return err
//	})
type SSEHandler func(ctx StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return NewHTTPError(http.StatusBadRequest, "SSE endpoint requires DataStar connection")
	}

	stream, err := NewStreamContext(NewContext(w, r))
	if err != nil {
		return err
	}
	return s.handler(stream)
}

// SSE creates a response that opens a DataStar event stream and runs h on it.
func SSE(h SSEHandler) Response {
	return sseResponse{handler: h}
}
