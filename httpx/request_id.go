package httpx

import (
	"crypto/rand"
	"encoding/hex"
)

type RequestIDFunc func() string

type RequestIDConfig struct {
	// Header carries the correlation id, e.g. "X-Request-ID". Empty disables injection.
	Header string

	// New generates an id when the header is missing. Nil selects DefaultRequestID.
	New RequestIDFunc
}

func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Header: "X-Request-ID",
		New:    DefaultRequestID,
	}
}

// DefaultRequestID returns 16 random bytes hex encoded, or "" if the system RNG fails.
func DefaultRequestID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
