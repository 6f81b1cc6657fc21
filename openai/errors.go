package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrInvalidMessageState 在对话为空时请求补全返回，此时不会发起网络请求
	ErrInvalidMessageState = errors.New("openai: messages list can't be empty; add a message with AddMessage, AddUserMessage, AddAssistantMessage or AddSystemMessage first")

	// ErrInvalidRole 角色不是 system、user、assistant 之一
	ErrInvalidRole = errors.New("openai: invalid role")
)

func roleError(role string) error {
	return fmt.Errorf("%w %q: want one of %q, %q, %q", ErrInvalidRole, role, RoleSystem, RoleUser, RoleAssistant)
}

// ConnectionError 传输层失败（DNS、TCP、TLS、代理等），没有收到任何 HTTP 响应
type ConnectionError struct {
	// Endpoint 请求的端点路径
	Endpoint string

	// Host API 主机名
	Host string

	// Cause 底层错误，通常是 *httpx.Error
	Cause error
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	host := e.Host
	if host == "" {
		host = "the API host"
	}
	msg := "openai: there's a connection problem; the system can't communicate with " + host +
		". Check your internet connection, DNS, firewall settings, or proxy configuration"
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// DecodeError 2xx 响应体无法解析为预期的 JSON 结构
type DecodeError struct {
	Endpoint   string
	StatusCode int
	Cause      error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("openai: decode %s response (http %d): %v", e.Endpoint, e.StatusCode, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// APIError API 错误，用于非 2xx 响应
//
// 默认情况下非 2xx 响应只记录日志并返回空结果，开启 WithStatusErrors 后才会返回该错误
type APIError struct {
	// Endpoint 请求的端点路径
	Endpoint string

	StatusCode int

	// Code 错误码，如 "invalid_api_key"
	Code string

	// Type 错误类型，如 "invalid_request_error"
	Type string

	// Message 人类可读的错误消息
	Message string

	// RequestID 请求追踪 ID
	RequestID string

	// Raw 原始响应体（可能被截断）
	Raw []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString("openai: ")
	if e.StatusCode != 0 {
		b.WriteString(fmt.Sprintf("http %d", e.StatusCode))
	} else {
		b.WriteString("http error")
	}

	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}

	if strings.TrimSpace(e.Code) != "" {
		b.WriteString(" (")
		b.WriteString(strings.TrimSpace(e.Code))
		b.WriteString(")")
	}
	if strings.TrimSpace(e.RequestID) != "" {
		b.WriteString(" request_id=")
		b.WriteString(strings.TrimSpace(e.RequestID))
	}

	return b.String()
}

// AsAPIError 判断错误是否为 APIError
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsConnectionError 判断错误是否为 ConnectionError
func AsConnectionError(err error) (*ConnectionError, bool) {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRateLimit 判断是否为限流错误
func IsRateLimit(err error) bool {
	ae, ok := AsAPIError(err)
	if !ok {
		return false
	}
	if ae.StatusCode == http.StatusTooManyRequests {
		return true
	}
	code := strings.ToLower(strings.TrimSpace(ae.Code))
	return code == "rate_limit" || code == "rate_limit_exceeded"
}

// IsAuth 判断是否为认证错误
func IsAuth(err error) bool {
	ae, ok := AsAPIError(err)
	if !ok {
		return false
	}
	return ae.StatusCode == http.StatusUnauthorized || ae.StatusCode == http.StatusForbidden
}
