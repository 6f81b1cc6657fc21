package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAfterHook_CountsResponsesAndFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	hook := c.AfterHook()

	req := httptest.NewRequest(http.MethodPost, "https://api.test/v1/chat/completions", nil)
	hook(req, &http.Response{StatusCode: http.StatusOK}, nil, 20*time.Millisecond)
	hook(req, &http.Response{StatusCode: http.StatusOK}, nil, 30*time.Millisecond)
	hook(req, &http.Response{StatusCode: http.StatusTooManyRequests}, nil, time.Millisecond)
	hook(req, nil, errors.New("dial tcp: connection refused"), time.Millisecond)

	if got := testutil.ToFloat64(c.Requests.WithLabelValues("/v1/chat/completions", "200")); got != 2 {
		t.Fatalf("200 count=%v", got)
	}
	if got := testutil.ToFloat64(c.Requests.WithLabelValues("/v1/chat/completions", "429")); got != 1 {
		t.Fatalf("429 count=%v", got)
	}
	if got := testutil.ToFloat64(c.TransportErrors.WithLabelValues("/v1/chat/completions")); got != 1 {
		t.Fatalf("transport errors=%v", got)
	}
	if n := testutil.CollectAndCount(c.RequestDuration); n != 1 {
		t.Fatalf("duration series=%d", n)
	}
}

func TestHandler_ServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	req := httptest.NewRequest(http.MethodPost, "https://api.test/v1/audio/transcriptions", nil)
	c.AfterHook()(req, &http.Response{StatusCode: http.StatusOK}, nil, time.Second)

	srv := httptest.NewServer(Handler(reg))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	want := `openai_requests_total{code="200",endpoint="/v1/audio/transcriptions"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("metrics output missing %q:\n%s", want, body)
	}
}
