// Package metrics exposes Prometheus metrics for API calls.
//
// A Collector is fed through an httpx.AfterHook, so it sees every request made
// by an openai.Client built WithHooks(nil, []httpx.AfterHook{c.AfterHook()}).
package metrics
