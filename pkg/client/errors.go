package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrInvalidBaseURL is returned when a base URL option is invalid.
var ErrInvalidBaseURL = errors.New("client: invalid base URL")

// APIError represents a STAC or OGC API error payload or plain HTTP failure.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Raw    []byte `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Title != "" && e.Detail != "":
		return fmt.Sprintf("client: %s (%s)", e.Title, e.Detail)
	case e.Title != "":
		return fmt.Sprintf("client: %s", e.Title)
	case e.Detail != "":
		return fmt.Sprintf("client: %s", e.Detail)
	default:
		return fmt.Sprintf("client: api error status=%d", e.Status)
	}
}

// Temporary reports whether the error may be retried.
func (e *APIError) Temporary() bool {
	if e == nil {
		return false
	}
	return e.Status >= 500 && e.Status < 600
}

// newAPIError consumes the response body and builds an APIError from it.
func newAPIError(resp *http.Response) *APIError {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &APIError{Status: resp.StatusCode, Raw: data}
	if err != nil {
		return apiErr
	}
	if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil {
		// Fallback to plain message.
		apiErr.Detail = string(data)
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}
