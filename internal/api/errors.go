// internal/api/errors.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by errors.Is for 401 answers.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx answer from the backend. Message carries the backend's
// own text when the body had one.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func newError(method, path string, status int, body []byte) *Error {
	return &Error{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: backendMessage(body),
	}
}

// backendMessage extracts the human readable text from an error body. The
// backend uses "message" on some routes and "error" on others; "error" may
// also be an object carrying its own message.
func backendMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Error, &text); err == nil {
		return text
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}

// MessageOf returns the text to show a user for err: the backend's message
// when present, the error text otherwise.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
