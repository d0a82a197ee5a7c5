// internal/services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/dravik/licensing-console/internal/api"
	"github.com/dravik/licensing-console/internal/i18n"
	"github.com/dravik/licensing-console/internal/utils"
)

// ErrorKind classifies a failure for the HTTP layer.
type ErrorKind int

const (
	// KindValidation is a local check that blocked the action before any
	// network call.
	KindValidation ErrorKind = iota + 1
	// KindConflict is an action refused because of the current page state.
	KindConflict
	// KindNotFound is a reference to something the page does not show.
	KindNotFound
	// KindUpstream is a backend or transport failure.
	KindUpstream
	// KindWallet is a wallet refusal the user can act on.
	KindWallet
)

// ErrWorkspaceClosed is returned when a page is used after logout.
var ErrWorkspaceClosed = errors.New("workspace closed")

// UserError is a failure carrying the message shown to the user.
type UserError struct {
	Kind   ErrorKind
	Msg    i18n.Message
	Fields []utils.ValidationError
	Err    error
}

func (e *UserError) Error() string {
	text := e.Msg.Render(i18n.DefaultLang)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", text, e.Err)
	}
	return text
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// UserMessage is the message to show for this failure.
func (e *UserError) UserMessage() i18n.Message {
	return e.Msg
}

// ErrorKind reports how the failure is classified.
func (e *UserError) ErrorKind() ErrorKind {
	return e.Kind
}

func validationError(msg i18n.Message, fields []utils.ValidationError) *UserError {
	return &UserError{Kind: KindValidation, Msg: msg, Fields: fields}
}

func upstreamError(msg i18n.Message, err error) *UserError {
	return &UserError{Kind: KindUpstream, Msg: msg, Err: err}
}

// backendMessage returns the backend's own text for err when it sent one,
// fallback otherwise.
func backendMessage(fallback i18n.Message, err error) i18n.Message {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return i18n.Text(apiErr.Message)
	}
	return fallback
}

// backendError is an upstream failure shown with the backend's text when
// present.
func backendError(fallback i18n.Message, err error) *UserError {
	return upstreamError(backendMessage(fallback, err), err)
}
