package httpx

import (
	"net/http"
	"time"
)

type Option interface{ apply(*Config) }

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

func WithBaseURL(baseURL string) Option {
	return optionFunc(func(c *Config) { c.BaseURL = baseURL })
}

func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.Timeout = d })
}

// WithTransport replaces the RoundTripper. A nil value keeps the default.
func WithTransport(rt http.RoundTripper) Option {
	return optionFunc(func(c *Config) {
		if rt != nil {
			c.Transport = rt
		}
	})
}

func WithDefaultHeader(key, value string) Option {
	return optionFunc(func(c *Config) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		c.DefaultHeaders.Set(key, value)
	})
}

// WithBearerToken sets "Authorization: Bearer <token>" on every request.
// The token is sent as-is, an empty token included.
func WithBearerToken(token string) Option {
	return WithDefaultHeader("Authorization", "Bearer "+token)
}

func WithUserAgent(ua string) Option {
	return optionFunc(func(c *Config) { c.UserAgent = ua })
}

func WithMaxErrorBodyBytes(n int64) Option {
	return optionFunc(func(c *Config) { c.MaxErrorBodyBytes = n })
}

func WithRequestID(cfg RequestIDConfig) Option {
	return optionFunc(func(c *Config) { c.RequestID = cfg })
}
