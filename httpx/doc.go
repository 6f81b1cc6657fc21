// Package httpx provides the shared HTTP transport used by the API clients:
// - one reusable *http.Client with a tuned transport
// - default headers (bearer auth, user agent) fixed at construction
// - request building with base URL, JSON and multipart bodies
// - an error type carrying method, url and request id for transport failures
// - hook points for logging/metrics without hard dependencies
//
// A Client makes exactly one attempt per request. Non-2xx responses are
// returned to the caller untouched; interpreting them is the caller's job.
package httpx
