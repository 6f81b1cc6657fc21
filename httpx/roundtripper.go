package httpx

import (
	"net/http"
	"sync/atomic"
)

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Recorder counts the requests that reach Next. It is safe for concurrent use.
type Recorder struct {
	Next http.RoundTripper

	calls atomic.Int64
}

func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.calls.Add(1)
	next := r.Next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

// Calls reports how many requests went through.
func (r *Recorder) Calls() int64 { return r.calls.Load() }
