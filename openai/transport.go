package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lgc202/openai-kit/httpx"
)

// transport is shared by the sub-clients of one Client.
type transport struct {
	http         *httpx.Client
	host         string
	logger       *slog.Logger
	statusErrors bool
}

// post sends one request and decodes a 2xx body into dst.
// It reports false with a nil error when the API rejected the request and status errors are off.
func (t *transport) post(ctx context.Context, endpoint string, body httpx.RequestOption, dst any) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := t.http.NewRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return false, fmt.Errorf("openai: build %s request: %w", endpoint, err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		// Cancellation by the caller is not a connectivity problem.
		if ctx.Err() != nil {
			return false, fmt.Errorf("openai: %s: %w", endpoint, err)
		}
		return false, &ConnectionError{Endpoint: endpoint, Host: t.host, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := t.apiError(endpoint, req, resp)
		t.logger.WarnContext(ctx, "openai: request rejected",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"request_id", ae.RequestID,
			"code", ae.Code,
			"message", ae.Message,
		)
		if t.statusErrors {
			return false, ae
		}
		return false, nil
	}

	if err := httpx.DecodeJSON(resp, dst); err != nil {
		return false, &DecodeError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: err}
	}
	return true, nil
}

func (t *transport) apiError(endpoint string, req *http.Request, resp *http.Response) *APIError {
	raw := t.http.ReadErrorBody(resp)
	ae := &APIError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		RequestID:  firstNonEmpty(resp.Header.Get("X-Request-Id"), req.Header.Get(t.http.RequestIDHeader())),
		Raw:        raw,
	}
	ae.Message, ae.Type, ae.Code = parseErrorEnvelope(raw)
	if ae.Message == "" {
		ae.Message = http.StatusText(resp.StatusCode)
	}
	return ae
}

type errorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func parseErrorEnvelope(raw []byte) (message, typ, code string) {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error == nil {
		return "", "", ""
	}
	if env.Error.Code != nil {
		code = stringify(env.Error.Code)
	}
	return strings.TrimSpace(env.Error.Message), env.Error.Type, code
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
