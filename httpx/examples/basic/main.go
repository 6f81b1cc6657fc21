package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/lgc202/openai-kit/httpx"
)

func main() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-demo" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1"}`)
	}))
	defer srv.Close()

	client, err := httpx.New(
		httpx.WithBaseURL(srv.URL+"/v1"),
		httpx.WithBearerToken("sk-demo"),
		httpx.WithTimeout(3*time.Second),
	)
	if err != nil {
		panic(err)
	}

	req, err := client.NewRequest(context.Background(), http.MethodPost, "/chat/completions",
		httpx.WithJSON(map[string]any{"model": "gpt-3.5-turbo"}),
	)
	if err != nil {
		panic(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Println("status:", resp.StatusCode)
		_ = resp.Body.Close()
		return
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := httpx.DecodeJSON(resp, &out); err != nil {
		panic(err)
	}
	fmt.Println("id =", out.ID)
}
