package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"
)

type Client struct {
	httpClient *http.Client

	baseURL *url.URL

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string

	maxErrBody int64

	requestID RequestIDConfig

	before []BeforeHook
	after  []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	var bu *url.URL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &url.Error{Op: "parse", URL: cfg.BaseURL, Err: errors.New("base url must be absolute")}
		}
		// Treat the BaseURL path as a prefix so "/chat/completions" lands under "/v1/".
		if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		bu = u
	}

	// Clone headers to avoid caller mutation, rejecting values net/http would refuse to send.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, fmt.Errorf("httpx: invalid header field name %q", k)
		}
		for _, v := range vv {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, fmt.Errorf("httpx: invalid value for header %q", k)
			}
			hdr.Add(k, v)
		}
	}
	if cfg.UserAgent != "" && !httpguts.ValidHeaderFieldValue(cfg.UserAgent) {
		return nil, errors.New("httpx: invalid user agent")
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody == 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	c := &Client{
		httpClient:     &http.Client{Transport: rt},
		baseURL:        bu,
		timeout:        cfg.Timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		maxErrBody:     maxErrBody,
		requestID:      cfg.RequestID,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	return c, nil
}

// WithHooks adds hooks. Call this during initialization (before the client is used concurrently).
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

// RequestIDHeader returns the configured correlation header name ("" when disabled).
func (c *Client) RequestIDHeader() string { return c.requestID.Header }

func (c *Client) resolveURL(path string) (*url.URL, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty url/path")
	}
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return u, nil
	}
	if c.baseURL == nil {
		return nil, errors.New("relative path requires BaseURL")
	}
	if strings.HasPrefix(u.Path, "/") {
		u2 := *u
		u2.Path = strings.TrimPrefix(u2.Path, "/")
		u = &u2
	}
	return c.baseURL.ResolveReference(u), nil
}

// Do sends the request once. It mirrors net/http semantics:
// - transport errors are returned as *Error
// - non-2xx responses are returned as resp with nil error
//
// When a client timeout applies, it stays armed until the response body is closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ctx := req.Context()
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		if dl, ok := ctx.Deadline(); !ok || time.Until(dl) > c.timeout {
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
		}
	}
	req = req.Clone(ctx)

	for _, h := range c.before {
		if h == nil {
			continue
		}
		if err := h(req); err != nil {
			cancel()
			return nil, err
		}
	}

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(t0)

	for _, h := range c.after {
		if h != nil {
			h(req, resp, err, dur)
		}
	}

	if err != nil {
		// http.Client may return a non-nil resp alongside an error (e.g. redirect issues).
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		cancel()
		return nil, &Error{
			Method:    req.Method,
			URL:       req.URL.String(),
			RequestID: strings.TrimSpace(req.Header.Get(c.requestID.Header)),
			Cause:     err,
		}
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// ReadErrorBody reads at most MaxErrorBodyBytes of a (non-2xx) response body and closes it.
func (c *Client) ReadErrorBody(resp *http.Response) []byte {
	if resp == nil || resp.Body == nil {
		return nil
	}
	defer resp.Body.Close()
	if c.maxErrBody < 0 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxErrBody))
	return b
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
