package qrhub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error kinds returned by the backend. Every *APIError unwraps to one of
// them, so callers can switch with errors.Is.
var (
	ErrUnauthorized = errors.New("qrhub: unauthorized")
	ErrNotFound     = errors.New("qrhub: not found")
	ErrServer       = errors.New("qrhub: server error")
	ErrRequest      = errors.New("qrhub: request error")
	// ErrConflict is a request error; a 409 matches both.
	ErrConflict = errors.New("qrhub: conflict")
)

// FieldError is one entry of the backend's validation error list.
type FieldError struct {
	Msg   string `json:"msg"`
	Path  string `json:"path,omitempty"`
	Param string `json:"param,omitempty"`
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("qrhub: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("qrhub: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *APIError) Unwrap() []error {
	kind := Classify(e.StatusCode)
	if kind == nil {
		return nil
	}
	if e.StatusCode == http.StatusConflict {
		return []error{ErrConflict, kind}
	}
	return []error{kind}
}

// Classify maps a status code onto an error kind. 2xx and 3xx return nil.
func Classify(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrRequest
	}
	return nil
}

// Message returns the backend's own message carried by err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

type errorBody struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors"`
}

func decodeError(res *http.Response) *APIError {
	apiErr := &APIError{StatusCode: res.StatusCode}

	var body errorBody
	data, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil || json.Unmarshal(data, &body) != nil {
		return apiErr
	}

	apiErr.Errors = body.Errors
	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case len(body.Errors) > 0 && body.Errors[0].Msg != "":
		apiErr.Message = body.Errors[0].Msg
	default:
		apiErr.Message = body.Error
	}
	return apiErr
}
