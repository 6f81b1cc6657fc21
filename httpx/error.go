package httpx

import (
	"errors"
	"strings"
)

// Error is a transport failure: no HTTP response was received.
type Error struct {
	Method string
	URL    string

	// RequestID is the correlation id sent with the request (see RequestIDConfig).
	RequestID string

	// Cause is the underlying error (dial, TLS, DNS, context cancellation, ...).
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if strings.TrimSpace(e.Method) != "" {
		b.WriteString(strings.ToUpper(strings.TrimSpace(e.Method)))
		b.WriteString(" ")
	}
	if strings.TrimSpace(e.URL) != "" {
		b.WriteString(strings.TrimSpace(e.URL))
		b.WriteString(": ")
	}
	b.WriteString("request failed")
	if e.RequestID != "" {
		b.WriteString(" request_id=")
		b.WriteString(e.RequestID)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
