package weather

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries a user-facing Message alongside its Kind and the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalidRequest(msg string) error {
	return &Error{Kind: ErrInvalidRequest, Message: msg}
}

func notFound(query string) error {
	return &Error{Kind: ErrNotFound, Message: "City not found: " + query}
}

func upstreamUnavailable(msg string, err error) error {
	return &Error{Kind: ErrUpstreamUnavailable, Message: msg, Err: err}
}

// Message returns the text safe to show to callers. Errors that are not *Error fall back
// to a generic upstream message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Failed to fetch weather data"
}
