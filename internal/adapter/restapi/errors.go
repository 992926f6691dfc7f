package restapi

import (
	"fmt"
	"net/http"

	"github.com/rl1809/storefront/internal/port"
)

var errNoData = port.ErrNoData

// APIError is an upstream rejection: a non-2xx status or an envelope whose
// status is "error". Message is the server-reported text, possibly empty.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == port.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// UserMessage is the text shown to the user for a business-rule rejection.
func (e *APIError) UserMessage() string {
	return e.Message
}
