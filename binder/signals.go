package binder

import (
	"fmt"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// DatastarRequestHeader is set by the DataStar client on every backend action.
const DatastarRequestHeader = "Datastar-Request"

// Signals creates a binder that decodes the DataStar signal store sent with
// the request: the datastar query parameter for GET, the JSON body otherwise.
// Fields map by their json tags. Requests not issued by DataStar report
// ErrBinderNotApplicable.
func Signals() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if r.Header.Get(DatastarRequestHeader) != "true" {
			return ErrBinderNotApplicable
		}
		if err := datastar.ReadSignals(r, v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSignals, err)
		}
		return nil
	}
}
