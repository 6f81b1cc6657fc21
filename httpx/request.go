package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

type RequestOption interface{ apply(*requestConfig) }

type requestOptionFunc func(*requestConfig)

func (f requestOptionFunc) apply(c *requestConfig) { f(c) }

type requestConfig struct {
	header http.Header

	bodyBytes   []byte
	contentType string

	err error
}

func WithHeader(key, value string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	})
}

// WithBodyBytes sets the request body and its content type.
func WithBodyBytes(b []byte, contentType string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		c.bodyBytes = append([]byte(nil), b...)
		c.contentType = contentType
	})
}

// WithJSON sets the request body to a JSON-encoded value.
func WithJSON(v any) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		b, err := json.Marshal(v)
		if err != nil {
			// Surfaced by NewRequest.
			c.err = err
			return
		}
		c.bodyBytes = b
		c.contentType = "application/json"
	})
}

// WithForm sets the request body to an encoded multipart form.
func WithForm(f *Form) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		body, contentType, err := f.Encode()
		if err != nil {
			c.err = err
			return
		}
		c.bodyBytes = body
		c.contentType = contentType
	})
}

func (c *Client) NewRequest(ctx context.Context, method, path string, opts ...RequestOption) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rc := requestConfig{}
	for _, o := range opts {
		if o != nil {
			o.apply(&rc)
		}
	}
	if rc.err != nil {
		return nil, rc.err
	}

	u, err := c.resolveURL(path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if rc.bodyBytes != nil {
		body = bytes.NewReader(rc.bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), body)
	if err != nil {
		return nil, err
	}

	// Apply headers: default headers first, then request headers override.
	for k, vv := range c.defaultHeaders {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	for k, vv := range rc.header {
		req.Header.Del(k)
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if rc.contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", rc.contentType)
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.requestID.Header != "" && req.Header.Get(c.requestID.Header) == "" && c.requestID.New != nil {
		if id := strings.TrimSpace(c.requestID.New()); id != "" {
			req.Header.Set(c.requestID.Header, id)
		}
	}
	return req, nil
}
