package httpx

import (
	"net/http"
	"time"
)

// BeforeHook runs right before a request is sent. Returning an error aborts the request.
type BeforeHook func(req *http.Request) error

// AfterHook observes the outcome of a request. resp is nil when err is not.
type AfterHook func(req *http.Request, resp *http.Response, err error, dur time.Duration)
