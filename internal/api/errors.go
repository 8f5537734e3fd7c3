package api

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failure carries no usable payload.
const FallbackMessage = "An unexpected error occurred. Please try again."

// ErrUnauthorized matches any *Error with HTTP status 401 via errors.Is.
// A 401 anywhere forces logout, so callers check for this sentinel
// rather than inspecting status codes themselves.
var ErrUnauthorized = &Error{StatusCode: 401}

// Error is a structured failure returned by the backend. Two payload
// shapes coexist on the server (a migration left both behind): the
// newer one carries a messages array, the older one a single message
// field, and some legacy handlers only fill error.
type Error struct {
	StatusCode int
	Messages   []string `json:"messages"`
	Message    string   `json:"message"`
	Reason     string   `json:"error"`
}

// Error implements the error interface with a short diagnostic string.
func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.UserMessage())
}

// Is reports whether target matches this error. Only ErrUnauthorized is
// matched, by status code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.StatusCode == 401 && e.StatusCode == 401
}

// UserMessage extracts the user-facing message. The priority order is
// fixed: messages array, then message, then error, then the fallback.
// Multiple messages are bullet-joined, one per line.
func (e *Error) UserMessage() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	if len(e.Messages) > 1 {
		bullets := make([]string, len(e.Messages))
		for i, msg := range e.Messages {
			bullets[i] = "• " + msg
		}
		return strings.Join(bullets, "\n")
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != "" {
		return e.Reason
	}
	return FallbackMessage
}

// UserMessage extracts a user-facing message from any error. API errors
// yield their payload message; transport errors and everything else map
// to the fixed fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return FallbackMessage
}
