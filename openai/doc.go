// Package openai is a small client for the OpenAI chat completion and audio
// transcription endpoints.
//
// A Client owns one shared httpx.Client carrying the bearer token and exposes two
// sub-clients that use it:
//   - Chat keeps an ordered conversation and requests completions for it.
//   - Transcription uploads audio as multipart/form-data.
//
// Every call is a single attempt. Results come in three shapes:
//   - a parsed response and a nil error on a 2xx status
//   - (nil, nil) when the API rejects the request with a non-2xx status; the
//     rejection is logged at warn level (see WithStatusErrors to get an *APIError instead)
//   - a nil response and an error: ErrInvalidMessageState, *ConnectionError,
//     *DecodeError, a context error or a filesystem error
//
// Callers therefore check for a nil response in addition to the error.
package openai
