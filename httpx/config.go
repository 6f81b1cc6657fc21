package httpx

import (
	"net/http"
	"time"
)

// Config configures a Client. Use DefaultConfig() as a baseline.
type Config struct {
	// BaseURL is optional. If set, relative paths passed to NewRequest are resolved against it.
	BaseURL string

	// Timeout bounds a whole request. If the request context already has a deadline, the earlier one wins.
	// Zero disables the client-side bound.
	Timeout time.Duration

	// Transport is the underlying RoundTripper. If nil, a tuned default is used.
	Transport http.RoundTripper

	// DefaultHeaders are copied into every request (request headers win).
	DefaultHeaders http.Header

	// UserAgent is set when the request does not already have a User-Agent header.
	UserAgent string

	// MaxErrorBodyBytes limits how much of a non-2xx body ReadErrorBody keeps.
	// If zero, DefaultMaxErrorBodyBytes is used.
	MaxErrorBodyBytes int64

	// RequestID configures correlation id propagation.
	RequestID RequestIDConfig
}

const DefaultMaxErrorBodyBytes int64 = 64 << 10 // 64KiB

// DefaultConfig returns a conservative baseline. It has no client-side timeout:
// completions may legitimately take minutes, so callers bound them with ctx or WithTimeout.
func DefaultConfig() Config {
	return Config{
		Transport:         DefaultTransport(),
		DefaultHeaders:    make(http.Header),
		MaxErrorBodyBytes: DefaultMaxErrorBodyBytes,
		RequestID:         DefaultRequestIDConfig(),
	}
}
