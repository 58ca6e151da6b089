package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrForbidden is returned before any request is made when the client's role
// lacks the feature a call needs.
var ErrForbidden = errors.New("apiclient: role lacks required feature")

// Error is a failed gateway call, built from the failure envelope.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    interface{}
	Required   []string
	Missing    []string
	Path       string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("apiclient: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("apiclient: %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *Error) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type envelope struct {
	Success  bool        `json:"success"`
	Error    string      `json:"error"`
	Code     string      `json:"code"`
	Details  interface{} `json:"details"`
	Required []string    `json:"required"`
	Missing  []string    `json:"missing"`
	Path     string      `json:"path"`
}
