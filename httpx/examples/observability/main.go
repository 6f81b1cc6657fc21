package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/lgc202/openai-kit/httpx"
)

func main() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	client, err := httpx.New(httpx.WithBaseURL(srv.URL))
	if err != nil {
		panic(err)
	}
	client.WithHooks(nil, []httpx.AfterHook{
		func(req *http.Request, resp *http.Response, err error, dur time.Duration) {
			code := 0
			if resp != nil {
				code = resp.StatusCode
			}
			logger.Info("http request",
				"method", req.Method,
				"url", req.URL.String(),
				"status", code,
				"err", err,
				"dur", dur,
				"request_id", req.Header.Get(client.RequestIDHeader()),
			)
		},
	})

	req, err := client.NewRequest(context.Background(), http.MethodGet, "/")
	if err != nil {
		panic(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	_ = resp.Body.Close()
}
