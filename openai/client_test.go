package openai

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lgc202/openai-kit/httpx"
)

const testBaseURL = "https://api.test/v1"

func newTestClient(t *testing.T, rt http.RoundTripper, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{
		WithBaseURL(testBaseURL),
		WithTransport(rt),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	c, err := New("sk-test", all...)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return c
}

func jsonResponse(r *http.Request, status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: h, Request: r}
}

func TestNew_SharedTransportCarriesBearer(t *testing.T) {
	var seen []string
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = append(seen, r.URL.Path+" "+r.Header.Get("Authorization"))
		if r.URL.Path == "/v1/chat/completions" {
			return jsonResponse(r, http.StatusOK, `{"id":"c1","choices":[]}`), nil
		}
		return jsonResponse(r, http.StatusOK, `{"text":"hello"}`), nil
	})
	c := newTestClient(t, rt)

	c.Chat.AddUserMessage("hi")
	if _, err := c.Chat.Completion(context.Background()); err != nil {
		t.Fatalf("Completion() err=%v", err)
	}
	if _, err := c.Transcription.TranscribeBytes(context.Background(), "a.mp3", []byte("x")); err != nil {
		t.Fatalf("TranscribeBytes() err=%v", err)
	}

	want := []string{
		"/v1/chat/completions Bearer sk-test",
		"/v1/audio/transcriptions Bearer sk-test",
	}
	if strings.Join(seen, "|") != strings.Join(want, "|") {
		t.Fatalf("requests=%v, want %v", seen, want)
	}
}

func TestNew_RejectsKeyWithControlCharacters(t *testing.T) {
	if _, err := New("sk-\r\nX-Evil: 1"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNew_EmptyKeyIsSentAsIs(t *testing.T) {
	var auth string
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		auth = r.Header.Get("Authorization")
		return jsonResponse(r, http.StatusUnauthorized, `{"error":{"message":"no key"}}`), nil
	})
	c, err := New("", WithBaseURL(testBaseURL), WithTransport(rt), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	c.Chat.AddUserMessage("hi")
	resp, err := c.Chat.Completion(context.Background())
	if resp != nil || err != nil {
		t.Fatalf("Completion()=(%v, %v), want (nil, nil)", resp, err)
	}
	if auth != "Bearer" && auth != "Bearer " {
		t.Fatalf("Authorization=%q", auth)
	}
}

func TestNew_DefaultUserAgent(t *testing.T) {
	var ua string
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		ua = r.Header.Get("User-Agent")
		return jsonResponse(r, http.StatusOK, `{"text":""}`), nil
	})
	c := newTestClient(t, rt)
	if _, err := c.Transcription.TranscribeBytes(context.Background(), "a.wav", nil); err != nil {
		t.Fatalf("TranscribeBytes() err=%v", err)
	}
	if !strings.HasPrefix(ua, "openai-kit/") {
		t.Fatalf("User-Agent=%q", ua)
	}
}

func TestNew_HooksSeeEveryRequest(t *testing.T) {
	var calls int
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(r, http.StatusOK, `{"text":"ok"}`), nil
	})
	c := newTestClient(t, rt, WithHooks(nil, []httpx.AfterHook{
		func(*http.Request, *http.Response, error, time.Duration) { calls++ },
	}))
	for i := 0; i < 3; i++ {
		if _, err := c.Transcription.TranscribeBytes(context.Background(), "a.wav", nil); err != nil {
			t.Fatalf("TranscribeBytes() err=%v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("hook calls=%d", calls)
	}
}

func TestRejectedRequestIsLogged(t *testing.T) {
	var buf bytes.Buffer
	rt := httpx.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resp := jsonResponse(r, http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"requests","code":"rate_limit_exceeded"}}`)
		resp.Header.Set("X-Request-Id", "req_123")
		return resp, nil
	})
	c := newTestClient(t, rt, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	c.Chat.AddUserMessage("hi")
	resp, err := c.Chat.Completion(context.Background())
	if resp != nil || err != nil {
		t.Fatalf("Completion()=(%v, %v), want (nil, nil)", resp, err)
	}

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=429", "endpoint=/chat/completions", "request_id=req_123", "code=rate_limit_exceeded", `message="slow down"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}
