package openai

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lgc202/openai-kit/httpx"
	"github.com/lgc202/openai-kit/version"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	ChatCompletionsPath = "/chat/completions"
	TranscriptionsPath  = "/audio/transcriptions"
)

// Client is the entry point. Chat and Transcription share one HTTP transport
// for the lifetime of the Client.
type Client struct {
	Chat          *ChatClient
	Transcription *TranscriptionClient

	tr *transport
}

type clientConfig struct {
	baseURL      string
	roundTripper http.RoundTripper
	timeout      time.Duration
	userAgent    string
	logger       *slog.Logger
	before       []httpx.BeforeHook
	after        []httpx.AfterHook
	statusErrors bool
}

type Option func(*clientConfig)

// WithBaseURL points the client at another API root, e.g. a proxy or a compatible server.
// Endpoint paths are appended to it.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) { c.baseURL = baseURL }
}

// WithTransport replaces the RoundTripper used for every request.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) { c.roundTripper = rt }
}

// WithTimeout bounds each call, response body included. Zero means no client-side bound.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *clientConfig) { c.userAgent = ua }
}

// WithLogger sets the logger used for rejected requests. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHooks registers transport hooks, e.g. metrics.Collector.AfterHook.
func WithHooks(before []httpx.BeforeHook, after []httpx.AfterHook) Option {
	return func(c *clientConfig) {
		c.before = append(c.before, before...)
		c.after = append(c.after, after...)
	}
}

// WithStatusErrors makes non-2xx responses return an *APIError instead of (nil, nil).
func WithStatusErrors(enabled bool) Option {
	return func(c *clientConfig) { c.statusErrors = enabled }
}

// New builds the shared transport with "Authorization: Bearer <apiKey>" attached.
// The key is not validated; a bad key surfaces as a rejected request.
// Construction only fails when the transport refuses the configuration
// (control characters in the key, a relative base URL).
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		baseURL:   DefaultBaseURL,
		userAgent: version.UserAgent(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	hc, err := httpx.New(
		httpx.WithBaseURL(cfg.baseURL),
		httpx.WithTransport(cfg.roundTripper),
		httpx.WithTimeout(cfg.timeout),
		httpx.WithUserAgent(cfg.userAgent),
		httpx.WithBearerToken(apiKey),
		httpx.WithDefaultHeader("Accept", "application/json"),
	)
	if err != nil {
		return nil, err
	}
	hc.WithHooks(cfg.before, cfg.after)

	host := cfg.baseURL
	if u, err := url.Parse(cfg.baseURL); err == nil && u.Host != "" {
		host = u.Host
	}

	tr := &transport{
		http:         hc,
		host:         host,
		logger:       cfg.logger,
		statusErrors: cfg.statusErrors,
	}
	return &Client{
		Chat:          &ChatClient{tr: tr},
		Transcription: &TranscriptionClient{tr: tr},
		tr:            tr,
	}, nil
}

// NewChat returns a ChatClient with an empty conversation on the same transport.
// Use it to keep independent conversations side by side.
func (c *Client) NewChat() *ChatClient {
	return &ChatClient{tr: c.tr}
}
