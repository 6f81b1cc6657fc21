package httpx

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// TransportConfig captures the http.Transport knobs the CLI exposes.
type TransportConfig struct {
	// ProxyURL routes every request through an explicit proxy. Empty falls back to the environment.
	ProxyURL string

	DialTimeout         time.Duration
	TLSHandshakeTimeout time.Duration
}

// NewTransport builds an *http.Transport starting from DefaultTransport() and applying overrides.
func NewTransport(cfg TransportConfig) (*http.Transport, error) {
	t := DefaultTransport()
	if cfg.ProxyURL != "" {
		u, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		t.Proxy = http.ProxyURL(u)
	}
	if cfg.DialTimeout > 0 {
		t.DialContext = (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
	}
	if cfg.TLSHandshakeTimeout > 0 {
		t.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout
	}
	return t, nil
}

// DefaultTransport returns a tuned clone of http.DefaultTransport.
//
// No ResponseHeaderTimeout: a completion only sends headers once generation is done.
func DefaultTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{Proxy: http.ProxyFromEnvironment}
	}
	t := base.Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	t.TLSHandshakeTimeout = 10 * time.Second
	t.ExpectContinueTimeout = 1 * time.Second
	t.IdleConnTimeout = 90 * time.Second
	t.ForceAttemptHTTP2 = true
	return t
}
